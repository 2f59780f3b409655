// Package cli provides command-line interface setup and configuration
// for the vjtalk application. It handles flag parsing, command
// creation, credentials and configuration management using cobra and viper.
package cli
