package fsutil

// File and directory permission constants, used consistently throughout the
// application.
const (
	// FileModeDefault is the default mode for downloaded files.
	FileModeDefault = 0o644 // -rw-r--r--

	// FileModeSecure is used for sensitive files such as configs.
	FileModeSecure = 0o640 // -rw-r-----

	// DirModeDefault is the default mode for created directories.
	DirModeDefault = 0o755 // drwxr-xr-x

	// DirModeSecure is used for sensitive directories.
	DirModeSecure = 0o750 // drwxr-x---
)
