package keyboard

// Version is the release of the library and the keyboard CLI.
// Release builds override it with -ldflags "-X github.com/anaradzetski/keyboard.Version=...".
var Version = "0.1.0"
