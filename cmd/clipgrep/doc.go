// Command clipgrep searches transcripts and cuts the matches into supercuts.
//
// The search subcommand lists matching spans; export composes matches into a
// rendered file, a playlist, or an edit decision list. Transcripts are found
// next to their media files, and semantic search additionally needs an
// embeddings API key in the configuration.
package main
