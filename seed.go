package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"booktracker/library"
)

var seedDBPath string

// seedBooks is a starter catalog so a fresh install has something to read.
var seedBooks = []struct {
	author string
	title  string
	year   int
	genre  string
	length int
}{
	{"George Orwell", "1984", 1949, "Dystopian", 328},
	{"George Orwell", "Animal Farm", 1945, "Satire", 112},
	{"Anne Frank", "The Diary of a Young Girl", 1947, "Autobiography", 283},
	{"J.R.R. Tolkien", "The Fellowship of the Ring", 1954, "Fantasy", 423},
	{"J.R.R. Tolkien", "The Two Towers", 1954, "Fantasy", 352},
	{"J.R.R. Tolkien", "The Return of the King", 1955, "Fantasy", 416},
	{"J.K. Rowling", "Harry Potter and the Philosopher's Stone", 1997, "Fantasy", 223},
	{"J.K. Rowling", "Harry Potter and the Chamber of Secrets", 1998, "Fantasy", 251},
	{"J.K. Rowling", "Harry Potter and the Prisoner of Azkaban", 1999, "Fantasy", 317},
	{"J.K. Rowling", "Harry Potter and the Order of the Phoenix", 2003, "Fantasy", 766},
	{"J.K. Rowling", "Harry Potter and the Half-Blood Prince", 2005, "Fantasy", 607},
	{"J.K. Rowling", "Harry Potter and the Deathly Hallows", 2007, "Fantasy", 607},
	{"Harper Lee", "To Kill a Mockingbird", 1960, "Southern Gothic", 281},
	{"John Steinbeck", "The Grapes of Wrath", 1939, "Fiction", 464},
	{"Ray Bradbury", "Fahrenheit 451", 1953, "Dystopian", 194},
	{"Gabriel Garcia Marquez", "One Hundred Years of Solitude", 1967, "Magical Realism", 417},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a starter set of books into the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := library.NewDatabase(seedDBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		successCount := 0
		skipCount := 0

		for _, b := range seedBooks {
			fmt.Printf("Importing: %s by %s... ", b.title, b.author)

			id, err := db.CreateBook(b.author, b.title, b.year, b.genre, b.length)
			if err != nil {
				var verr *library.ValidationError
				if errors.As(err, &verr) {
					fmt.Println("SKIPPED (already in catalog)")
					skipCount++
					continue
				}
				return fmt.Errorf("seed %q: %w", b.title, err)
			}

			fmt.Printf("SUCCESS (ID: %d)\n", id)
			successCount++
		}

		fmt.Printf("\nImport complete!\n")
		fmt.Printf("Successfully imported: %d books\n", successCount)
		fmt.Printf("Skipped: %d\n", skipCount)

		// Display summary of the catalog
		books, err := db.ListBooks(false)
		if err != nil {
			return fmt.Errorf("list catalog: %w", err)
		}
		fmt.Printf("\n%-3s %-45s %-25s %-6s %-18s %s\n", "ID", "Title", "Author", "Year", "Genre", "Pages")
		fmt.Println(strings.Repeat("-", 110))
		for _, book := range books {
			fmt.Printf("%-3d %-45s %-25s %-6d %-18s %d\n",
				book.ID, truncateString(book.Title, 45), truncateString(book.Author, 25),
				book.Year, truncateString(book.Genre, 18), book.Length)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDBPath, "db", defaultDBPath(), "path to the SQLite database")
	rootCmd.AddCommand(seedCmd)
}

func defaultDBPath() string {
	if v := os.Getenv("DB_PATH"); v != "" {
		return v
	}
	return "booktracker.db"
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
