// Command dashboard is the operator tool for the AI agent platform. Each
// subcommand is one dashboard widget; "serve" exposes the same widgets as a
// local JSON API.
package main

func main() {
	Execute()
}
