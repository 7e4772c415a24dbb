// =============================================================================
// Receipts - Main Entry Point
// =============================================================================
//
// USAGE:
//   receipts generate     - Compose a new receipt and record it in history
//   receipts regenerate   - Compose a past receipt again from history
//   receipts history      - List recorded receipts
//   receipts customers    - Manage customer templates
//   receipts export       - Write a monthly income report
//   receipts next         - Print the next suggested receipt number
//   receipts validate     - Check configuration and resources
//   receipts version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : receipt composition, storage and export
//   - pkg/utils      : atomic writes and backups
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/receipts/cmd"
)

func main() {
	cmd.Execute()
}
