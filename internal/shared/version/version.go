package version

// Version is overridden at build time with -ldflags "-X junitmig/internal/shared/version.Version=...".
var Version = "dev"
