// Command website-assistant chats about company websites, extracts their
// details and social links, and writes brochures.
//
// Usage:
//
//	website-assistant chat --variant social
//	website-assistant details https://example.com
//	website-assistant brochure --input sites.csv --output brochures.ndjson
//	website-assistant serve --addr :8080
package main

func main() {
	Execute()
}
