package fairness

// serverSeedBytes is the raw length of a server seed before hex
// encoding. 32 bytes matches the HMAC-SHA256 block comfortably.
const serverSeedBytes = 32

// clientSeedBytes sizes the generated default client seed. Shorter than
// the server seed; it only needs to be distinct, not secret.
const clientSeedBytes = 8
