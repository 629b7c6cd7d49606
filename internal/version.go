package internal

// Version is the thienthu release.
const Version = "0.3.0"
