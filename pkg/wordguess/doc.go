// Package wordguess finds the dictionary words that can be spelled from a
// pool of letters, optionally allowing a few bonus letters the pool lacks,
// and packs the answer into chat-sized messages.
//
// Word lists are plain text files with one word per line, or lists imported
// into SQLite with the wordlist command. A Redis or Valkey instance can cache
// them between searches.
//
//	client, _ := wordguess.New(ctx, wordguess.WithWordListDir("word-lists"))
//	defer client.Close()
//
//	res, _ := client.Guess(ctx, "garden", "english", wordguess.Bonus(1))
//	for _, msg := range res.Messages {
//	    fmt.Println(msg)
//	}
package wordguess
