package model

// VersionInfo describes the running application and database schema versions.
type VersionInfo struct {
	AppVersion string
	DBVersion  int64
}
