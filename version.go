package walkthrough

// Version is the current library and CLI version.
const Version = "0.1.0"
