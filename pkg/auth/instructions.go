package auth

import (
	"fmt"
	"strings"
)

// ShowCookieExtractionGuide displays step-by-step instructions for extracting cookies
func ShowCookieExtractionGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("📚 WEIBO COOKIE EXTRACTION GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool needs your Weibo session cookie to list posts and change")
	fmt.Println("their visibility. Follow these steps to extract it from your browser:")
	fmt.Println()

	fmt.Println("🌐 STEP 1: Open Weibo in your browser")
	fmt.Println("   - Go to https://weibo.com")
	fmt.Println("   - Log in with your account")
	fmt.Println("   - Make sure you can see your feed")
	fmt.Println()

	fmt.Println("🔧 STEP 2: Open Developer Tools")
	fmt.Println("   • Chrome/Edge/Brave: Press F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)")
	fmt.Println("   • Firefox: Press F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)")
	fmt.Println("   • Safari: Enable Developer menu in Preferences, then Cmd+Option+I")
	fmt.Println()

	fmt.Println("📡 STEP 3: Go to the Network tab")
	fmt.Println("   - Click on the 'Network' tab in Developer Tools")
	fmt.Println("   - If it's empty, refresh the page (F5)")
	fmt.Println()

	fmt.Println("🍪 STEP 4: Copy the Cookie header")
	fmt.Println("   1. Look for any request to 'weibo.com' (the 'mymblog' ones work well)")
	fmt.Println("   2. Click on it")
	fmt.Println("   3. Go to 'Headers' section")
	fmt.Println("   4. Scroll to 'Request Headers'")
	fmt.Println("   5. Copy the ENTIRE value of the 'Cookie:' line")
	fmt.Println()

	fmt.Println("🔑 STEP 5: Check the cookie contains these fields:")
	fmt.Println("   ┌─────────────┬──────────────────────────────────────────────┐")
	fmt.Println("   │ Field       │ What it looks like                           │")
	fmt.Println("   ├─────────────┼──────────────────────────────────────────────┤")
	fmt.Println("   │ SUB         │ Long session string starting with _2A        │")
	fmt.Println("   ├─────────────┼──────────────────────────────────────────────┤")
	fmt.Println("   │ XSRF-TOKEN  │ Short token, required for visibility changes │")
	fmt.Println("   └─────────────┴──────────────────────────────────────────────┘")
	fmt.Println()

	fmt.Println("👤 STEP 6: Find your numeric user id")
	fmt.Println("   - Open your profile page; the number in the URL is your user id")
	fmt.Println("   - Example: https://weibo.com/u/1234567890 → user id 1234567890")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • Paste the whole Cookie header unchanged, semicolons included")
	fmt.Println("   • The XSRF-TOKEN field must be present or mutations will be rejected")
	fmt.Println("   • Cookies expire; re-run 'wbprivacy auth login' when requests start failing with 401/403")
	fmt.Println()

	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • This cookie gives FULL access to your Weibo account")
	fmt.Println("   • NEVER share it with anyone")
	fmt.Println("   • Store it securely (this tool encrypts it)")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickExtractGuide shows a condensed version for experienced users
func ShowQuickExtractGuide() {
	fmt.Println("\n🍪 Quick Guide: F12 → Network tab → Refresh → Click any weibo.com request → Headers → Cookie")
	fmt.Println("   Need: the full Cookie header including the XSRF-TOKEN field")
	fmt.Println("   Type 'help' for detailed instructions")
}
