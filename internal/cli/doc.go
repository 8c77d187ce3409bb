// Package cli builds the pbxgraph command tree, merges flags, environment
// variables and HCL configuration files into the application configuration,
// and maps failures to process exit codes.
package cli
