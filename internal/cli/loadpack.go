package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trivia-duel-service/internal/config"
	"trivia-duel-service/internal/domain"
	"github.com/spf13/cobra"
)

// NewLoadPackCmd uploads a question pack file (JSON array or pipe-delimited
// lines) into the question_packs table so games can draw from it with
// packType "specific" or "random".
func NewLoadPackCmd(configPath *string) *cobra.Command {
	var packName string

	cmd := &cobra.Command{
		Use:   "load-pack <file>",
		Short: "Upload a question pack into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoadPack(cmd.Context(), *configPath, args[0], packName)
		},
	}
	cmd.Flags().StringVar(&packName, "name", "", "pack name (defaults to the file name)")
	return cmd
}

func runLoadPack(ctx context.Context, configPath, filePath, packName string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if packName == "" {
		packName = filepath.Base(filePath)
	}

	pack, err := domain.ParsePack(packName, raw)
	if err != nil {
		return err
	}
	if len(pack.Questions) < domain.TotalRounds {
		return fmt.Errorf("pack %q has %d usable questions, need at least %d: %w",
			packName, len(pack.Questions), domain.TotalRounds, domain.ErrInsufficientQuestions)
	}

	data, err := json.Marshal(pack)
	if err != nil {
		return err
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO question_packs (name, data) VALUES (?, ?::jsonb)
		 ON CONFLICT (name) DO UPDATE SET data=EXCLUDED.data, uploaded_at=now()`,
		pack.Name, string(data)); err != nil {
		return fmt.Errorf("upsert pack: %w", err)
	}

	fmt.Printf("loaded pack %q with %d questions\n", pack.Name, len(pack.Questions))
	return nil
}
