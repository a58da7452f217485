package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/infrastructure/repositories"
	"donation-platform.backend/internal/usecases"
)

//go:embed charities.yaml
var defaultCharities []byte

type charitySeedFile struct {
	Charities []charitySeed `yaml:"charities"`
}

type charitySeed struct {
	Name               string `yaml:"name"`
	Description        string `yaml:"description"`
	Category           string `yaml:"category"`
	Website            string `yaml:"website"`
	Logo               string `yaml:"logo"`
	VerificationStatus string `yaml:"verificationStatus"`
}

func parseCharitySeeds(data []byte) ([]charitySeed, error) {
	var f charitySeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	if len(f.Charities) == 0 {
		return nil, errors.New("seed file has no charities")
	}
	return f.Charities, nil
}

func charitiesCmd(deps seedDeps) *cobra.Command {
	var (
		file  string
		reset bool
	)
	cmd := &cobra.Command{
		Use:   "charities",
		Short: "Load charities from a YAML file (built-in list by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := defaultCharities
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				data = b
			}
			seeds, err := parseCharitySeeds(data)
			if err != nil {
				return err
			}

			db, closeDB, err := deps.connect()
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			charityRepo := repositories.NewCharityRepository(db)
			donationRepo := repositories.NewDonationRepository(db)

			if reset {
				err := repositories.NewUnitOfWork(db).Do(ctx, func(ctx context.Context) error {
					if err := donationRepo.DeleteAll(ctx); err != nil {
						return err
					}
					return charityRepo.DeleteAll(ctx)
				})
				if err != nil {
					return fmt.Errorf("failed to reset charities: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared existing charities and donations")
			}

			created, skipped, err := seedCharities(ctx, usecases.NewCharityUsecase(charityRepo), charityRepo, seeds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d charities, skipped %d existing\n", created, skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level charities list")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete all charities and donations first")
	return cmd
}

type charityNameLookup interface {
	GetByName(ctx context.Context, name string) (*entities.Charity, error)
}

// seedCharities creates every seed whose name is not taken yet
func seedCharities(ctx context.Context, uc *usecases.CharityUsecase, lookup charityNameLookup, seeds []charitySeed) (created, skipped int, err error) {
	for _, s := range seeds {
		if _, err := lookup.GetByName(ctx, s.Name); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return created, skipped, err
		}

		input := &entities.CreateCharityInput{
			Name:               s.Name,
			Description:        s.Description,
			Category:           entities.CharityCategory(s.Category),
			Website:            s.Website,
			Logo:               s.Logo,
			VerificationStatus: entities.VerificationStatus(s.VerificationStatus),
		}
		if _, err := uc.CreateCharity(ctx, input); err != nil {
			return created, skipped, fmt.Errorf("charity %q: %w", s.Name, err)
		}
		created++
	}
	return created, skipped, nil
}
