package utils

const (
	// LoggerInitializationFailedMessageFormat wraps logger construction failures.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command failures.
	ApplicationExecutionFailedMessage = "application execution failed"
	// GlobalConfigDirectoryName is the per-user configuration directory under the home directory.
	GlobalConfigDirectoryName = ".gitscribe"
	// ConfigFileName is the configuration file name used both globally and locally.
	ConfigFileName = ".gitscribe.yaml"
)
