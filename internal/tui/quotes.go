package tui

import "math/rand/v2"

var quotes = []string{
	"Success is the sum of small efforts repeated day in and day out.",
	"The way to get started is to quit talking and begin doing.",
	"Don't watch the clock; do what it does. Keep going.",
	"The future depends on what you do today.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts.",
	"It is during our darkest moments that we must focus to see the light.",
	"Believe you can and you're halfway there.",
	"The only impossible journey is the one you never begin.",
	"In the middle of difficulty lies opportunity.",
	"Success is walking from failure to failure with no loss of enthusiasm.",
}

func randomQuote() string {
	return quotes[rand.IntN(len(quotes))] //nolint:gosec // not security sensitive
}
