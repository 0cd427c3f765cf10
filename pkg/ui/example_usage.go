// Package ui provides the terminal output helpers for wbprivacy
// This file demonstrates example usage of the UI components
package ui

/*
Example usage of the UI components:

// Terminal colors and output
ui.PrintInfo("Target account", "1234567890")     // Cyan label, yellow value
ui.PrintSuccess("All posts updated")             // Green success message
ui.PrintError("Feed fetch failed", err)          // Red error message, stderr
ui.PrintWarning("Cookie expires soon")           // Yellow warning message
ui.PrintHighlight("[DRY RUN]")                   // Magenta highlight message

// Global switches, usually driven by flags and config
ui.SetColorEnabled(false)                        // Honor --no-color / NO_COLOR
ui.SetQuietMode(true)                            // Errors only

// Batch progress line
progress := ui.NewProgressPrinter(true)
progress.Update(12, 340, "5097886238307811", nil, false)
progress.Update(13, 340, "5097886238307812", err, false)
progress.Finish()

// Notifications (cross-platform, best-effort)
notifier := ui.NewNotifier()
notifier.SendNotification("Run complete", "312 changed, 3 failed")
notifier.SendError("Run failed", "session expired")

// Direct color usage
fmt.Printf("%s: %s\n", ui.Cyan("Account"), ui.Yellow("1234567890"))
fmt.Println(ui.Green("✓ changed"))
fmt.Println(ui.Red("✗ declined"))
*/
