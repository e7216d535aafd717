package catalog

// cacheSize bounds the in-memory case cache. Catalogs are expected to
// stay far below this.
const cacheSize = 256
