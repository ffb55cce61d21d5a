package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/daycount/internal/calendar"
	"github.com/pfrederiksen/daycount/internal/countdown"
)

func main() {
	engine := countdown.NewEngine(countdown.Options{Templates: &countdown.English})

	// Sample event two weeks out
	target := engine.Today().AddDays(14)
	res := engine.CalculateDay("Spring Release", target)

	icsContent := calendar.GenerateICS(res, engine.Templates(), time.Now())

	// Write to file (owner read/write only for security)
	filename := "test-daycount.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
