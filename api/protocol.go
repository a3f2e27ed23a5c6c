package api

// requestBodyMaxSize bounds mutation payloads. Board cards and CRM records
// are small; anything bigger is a client bug.
const requestBodyMaxSize = 1 << 20
