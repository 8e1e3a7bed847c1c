package codegen

// preamble is emitted once per generated module: the mock registry, the
// call() wrapper every mockable/extern call site routes through, the
// scoped with_mock helper (which checks the replacement's arity against the
// actual extern callable being shadowed, not just a previously installed
// mock), and the sequential, order-preserving list helpers map/filter/fold
// and the concat/structural-equality operators lower to (§4.9).
const preamble = `const __mockRegistry = new Map();

async function call(key, actual, args) {
  const mock = __mockRegistry.get(key);
  if (mock !== undefined) {
    return await mock(...args);
  }
  return await actual(...args);
}

async function with_mock(key, replacement, actual, body) {
  if (replacement.length !== actual.length) {
    throw new Error("mock replacement arity mismatch for " + key);
  }
  const prior = __mockRegistry.get(key);
  __mockRegistry.set(key, replacement);
  try {
    return await body();
  } finally {
    if (prior === undefined) {
      __mockRegistry.delete(key);
    } else {
      __mockRegistry.set(key, prior);
    }
  }
}

async function __sigilMap(list, fn) {
  const out = [];
  for (const x of list) {
    out.push(await fn(x));
  }
  return out;
}

async function __sigilFilter(list, pred) {
  const out = [];
  for (const x of list) {
    if (await pred(x)) {
      out.push(x);
    }
  }
  return out;
}

async function __sigilFold(list, fn, init) {
  let acc = init;
  for (const x of list) {
    acc = await fn(acc, x);
  }
  return acc;
}

function __sigilConcat(a, b) {
  if (typeof a === "string") {
    return a + b;
  }
  return [...a, ...b];
}

function __sigilEq(a, b) {
  if (a === b) {
    return true;
  }
  if (Array.isArray(a) && Array.isArray(b)) {
    if (a.length !== b.length) {
      return false;
    }
    for (let i = 0; i < a.length; i++) {
      if (!__sigilEq(a[i], b[i])) {
        return false;
      }
    }
    return true;
  }
  if (a && b && typeof a === "object" && typeof b === "object") {
    const ak = Object.keys(a).sort();
    const bk = Object.keys(b).sort();
    if (ak.length !== bk.length || ak.some((k, i) => k !== bk[i])) {
      return false;
    }
    return ak.every((k) => __sigilEq(a[k], b[k]));
  }
  return false;
}

`
