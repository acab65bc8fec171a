package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skillmates-backend/config"
	"skillmates-backend/internal/domain"
	"skillmates-backend/internal/repository/postgres"
	"skillmates-backend/pkg/database"
	"skillmates-backend/pkg/relevance"
)

// searchCmd runs the member ranking against the live database, for tuning
// SEARCH_WEIGHT_* values without going through the API.
func searchCmd() *cobra.Command {
	var limit int
	var role, expertise string

	c := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank members for a query using the configured weights",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			pool, err := database.NewPostgresConnection(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return err
			}
			defer pool.Close()

			profiles, err := postgres.NewProfileRepository(pool).ListAll(cmd.Context())
			if err != nil {
				return err
			}

			results := rankProfiles(profiles, strings.Join(args, " "), weightsFrom(cfg.SearchWeights),
				domain.SearchFilter{Role: role, Expertise: expertise}, limit)
			return printResults(cmd.OutOrStdout(), results)
		},
	}

	c.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum results (0 for all)")
	c.Flags().StringVar(&role, "role", "", "Filter by role")
	c.Flags().StringVar(&expertise, "expertise", "", "Filter by expertise level")
	return c
}

func weightsFrom(w config.SearchWeights) relevance.Weights {
	return relevance.Weights{
		ExactSkill:   w.ExactSkill,
		PartialSkill: w.PartialSkill,
		Name:         w.Name,
		Location:     w.Location,
		Bio:          w.Bio,
		Role:         w.Role,
		Language:     w.Language,
	}
}

// rankProfiles ranks every profile, applies the filter, then truncates.
func rankProfiles(profiles []domain.Profile, query string, w relevance.Weights, filter domain.SearchFilter, limit int) []relevance.Result {
	candidates := make([]relevance.Candidate, 0, len(profiles))
	for i := range profiles {
		candidates = append(candidates, profiles[i].ToCandidate())
	}

	ranked := relevance.NewRanker(w).Search(query, candidates, 0)
	out := ranked[:0]
	for _, r := range ranked {
		if filter.Matches(r.Candidate) {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func printResults(w io.Writer, results []relevance.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No matches")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tNAME\tROLE\tLOCATION\tSKILLS")
	for _, r := range results {
		name := r.Candidate.Name
		if name == "" {
			name = r.Candidate.Username
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Score, name, r.Candidate.Role, r.Candidate.Location, strings.Join(r.Candidate.Skills, ", "))
	}
	return tw.Flush()
}
