package types

// Version is the canonical project version.
// The CLI and the driver launch_result contract share this version.
const Version = "0.3.0"
