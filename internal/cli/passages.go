package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/versewalk/versewalk/internal/engine"
	"github.com/versewalk/versewalk/internal/store"
	"github.com/versewalk/versewalk/internal/versefile"
)

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("VERSEWALK_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}

// openEngine opens the database and wraps it in an engine. One-shot commands
// don't need request logging, so the engine gets a no-op logger.
func openEngine() (*engine.Engine, *store.DB, error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	return engine.New(db, zap.NewNop()), db, nil
}

// --- add command ---

var (
	addRef      string
	addKeywords []string
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a passage to memorize",
	Long:  "Add a passage. The text is taken from the argument, or from stdin when the argument is '-' or absent.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := ""
		if len(args) == 1 && args[0] != "-" {
			text = args[0]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return errors.Wrap(err, "read stdin")
			}
			text = strings.TrimSpace(string(data))
		}
		if addRef == "" {
			return errors.New("--ref is required")
		}

		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		created, err := eng.CreatePassage(addRef, text, addKeywords)
		if err != nil {
			return err
		}

		fmt.Printf("added %s (%s, %d segments, %s)\n",
			created.Passage.Reference, created.Passage.ID,
			created.Passage.SegmentCount, created.Passage.Difficulty)
		fmt.Println("review schedule:")
		for _, e := range created.Preview {
			fmt.Printf("  %d. %s (+%dd) — %s\n",
				e.ReviewNumber, e.Date.Format("2006-01-02"), e.DaysAfterStart, e.Recommendation)
		}
		return nil
	},
}

// --- due command ---

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List passages due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		due, err := eng.Due(time.Now())
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Println("nothing due — well done")
			return nil
		}

		for _, d := range due {
			fmt.Printf("%s  %s  (rep %d, due %s)\n",
				d.Passage.ID, d.Passage.Reference,
				d.ReviewState.Repetition,
				time.UnixMilli(d.ReviewState.NextReviewAt).Format("2006-01-02"))
		}
		return nil
	},
}

// --- review command ---

var reviewCmd = &cobra.Command{
	Use:   "review <passage-id>",
	Short: "Recite a passage and record the attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := db.GetPassage(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s — type the passage from memory, end with Ctrl-D:\n\n", p.Reference)
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(err, "read attempt")
		}

		result, err := eng.SubmitAttempt(p.ID, strings.TrimSpace(string(data)))
		if err != nil {
			return err
		}

		fmt.Printf("\nscore: %.2f (quality %d/5)\n", result.Evaluation.Score, result.Evaluation.Quality)
		fmt.Println(result.Evaluation.Feedback)
		fmt.Printf("next review: %s — %s\n",
			result.Schedule.NextReviewAt.Format("2006-01-02"), result.Schedule.Recommendation)
		return nil
	},
}

// --- preview command ---

var previewCmd = &cobra.Command{
	Use:   "preview <passage-id>",
	Short: "Show the preview review schedule for a passage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := eng.Preview(args[0])
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%d. %s (+%dd) — %s\n",
				e.ReviewNumber, e.Date.Format("2006-01-02"), e.DaysAfterStart, e.Recommendation)
		}
		return nil
	},
}

// --- import command ---

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk import passages from a 'reference | text' file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, lineErrs, err := versefile.ParseFile(args[0])
		if err != nil {
			return err
		}
		for _, le := range lineErrs {
			fmt.Fprintf(os.Stderr, "skipped %v\n", le)
		}

		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		imported := 0
		for _, e := range entries {
			if _, err := eng.CreatePassage(e.Reference, e.Text, e.Keywords); err != nil {
				fmt.Fprintf(os.Stderr, "skipped %s: %v\n", e.Reference, err)
				continue
			}
			imported++
		}
		fmt.Printf("imported %d of %d passages\n", imported, len(entries))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addRef, "ref", "", "Passage reference, e.g. '요한복음 15:5'")
	addCmd.Flags().StringSliceVar(&addKeywords, "keywords", nil, "Salient keywords to check during recitation")
}
