package utils

// LoggerInitializationFailedMessageFormat is used when the application logger cannot be built.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal command failures.
const ApplicationExecutionFailedMessage = "dirtree execution failed"
