// Package files handles the filesystem surface around the analysis pipeline:
// discovering candidate swipe logs in the data directory and preparing the
// application's working directories.
package files
