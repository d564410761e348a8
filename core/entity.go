package core

// Entity identifies a simulated object
// Values are issued in strictly increasing order by a single World and never reused
type Entity uint64
