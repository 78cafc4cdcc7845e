package main

import (
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/quantfield/fpml-trades/internal/fpml"
)

// fpmldump decodes an FpML document and prints the resulting trades, for
// inspecting what the parser makes of a given confirmation.
func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.xml> <our-party-id>\n", os.Args[0])
		os.Exit(2)
	}
	filePath := os.Args[1]
	ourParty := os.Args[2]

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", filePath, err)
	}

	parser, err := fpml.New(data, ourParty)
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	trades, err := parser.ParseTrades()
	if err != nil {
		log.Fatalf("Failed to parse trades: %v", err)
	}

	fmt.Printf("Decoded %d trade(s) from %s\n", len(trades), filePath)
	for i, trade := range trades {
		fmt.Printf("--- trade %d (%s) ---\n", i+1, trade.ProductKind())
		spew.Dump(trade)
	}
}
