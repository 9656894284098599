package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hearing-scheduler/internal/application"
	"github.com/example/hearing-scheduler/internal/listing"
	"github.com/example/hearing-scheduler/internal/persistence"
)

type assembleOptions struct {
	candidatesFile string
	batchID        string
	slotsFile      string
	courtsFile     string
}

type assembleOutput struct {
	ListingNeeds []application.ListingNeedDocument `json:"listing_needs"`
}

func (c *cli) assembleCommand() *cobra.Command {
	var opts assembleOptions
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble listing needs and print them as JSON",
		Long: `Assemble listing needs from a YAML or JSON candidate file, or from a
batch stored in the database.

Booking references are resolved against the database unless --slots names
a YAML table of booking reference to court schedule ids.

Examples:
  listing assemble --candidates candidates.yaml --slots slots.yaml
  listing assemble --batch 2024-03-04-crown
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAssemble(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.candidatesFile, "candidates", "c", "", "YAML or JSON file of hearing candidates")
	cmd.Flags().StringVarP(&opts.batchID, "batch", "b", "", "stored candidate batch to assemble")
	cmd.Flags().StringVarP(&opts.slotsFile, "slots", "s", "", "YAML booking slot table used instead of the database")
	cmd.Flags().StringVar(&opts.courtsFile, "courts", "", "YAML committing court table (defaults to LISTING_COMMITTING_COURTS_FILE)")
	cmd.MarkFlagsMutuallyExclusive("candidates", "batch")
	cmd.MarkFlagsOneRequired("candidates", "batch")
	return cmd
}

func (c *cli) runAssemble(ctx context.Context, opts assembleOptions) error {
	params := application.AssembleParams{BatchID: opts.batchID}
	if opts.candidatesFile != "" {
		docs, err := readFile(opts.candidatesFile, application.ReadCandidateDocuments)
		if err != nil {
			return err
		}
		candidates, err := application.DecodeCandidates(docs)
		if err != nil {
			return err
		}
		params.Candidates = candidates
	}

	courtsFile := opts.courtsFile
	if courtsFile == "" {
		courtsFile = c.cfg.CommittingCourtsFile
	}
	serviceOpts, err := c.courtsOption(courtsFile)
	if err != nil {
		return err
	}
	serviceOpts = append(serviceOpts, application.WithLogger(c.logger))

	var (
		repo     persistence.CandidateRepository
		registry listing.SlotRegistry
	)
	if opts.slotsFile != "" {
		table, err := readFile(opts.slotsFile, application.ReadSlotTable)
		if err != nil {
			return err
		}
		registry = application.NewStaticSlotRegistry(table)
	}
	if opts.batchID != "" || registry == nil {
		storage, err := c.openStorage(ctx)
		if err != nil {
			return err
		}
		defer c.closeStorage(storage)
		repo = storage
		if registry == nil {
			registry = c.storageRegistry(storage)
		}
	}

	service := application.NewListingService(repo, registry, serviceOpts...)
	result, err := service.AssembleListingNeeds(ctx, params)
	if err != nil {
		return fmt.Errorf("assemble listing needs: %w", err)
	}
	return writeJSON(c.stdout, assembleOutput{ListingNeeds: application.NewListingNeedDocuments(result.Needs)})
}
