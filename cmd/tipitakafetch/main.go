// Package main provides the entry point for the tipitakafetch CLI.
//
// tipitakafetch downloads the Sinhala and Pali texts of the Tripitaka from
// tripitaka.online, one canonical division (Nikaya) at a time, into
// resumable JSON batch files.
//
// Usage:
//
//	tipitakafetch fetch digha
//	tipitakafetch fetch --all
//
// See --help for all available options.
package main

// main is the entry point for tipitakafetch.
func main() {
	Execute()
}
