package cmd

import (
	"fmt"
	"io"

	"github.com/matheuskafuri/benkyou/internal/aggregator"
	"github.com/spf13/cobra"
)

var flagConceptsTrack string

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "List the concept ids available for a track",
	RunE: func(cmd *cobra.Command, args []string) error {
		list := aggregator.New(nil, nil).ListConcepts(flagConceptsTrack)
		renderConcepts(cmd.OutOrStdout(), list)
		return nil
	},
}

func init() {
	conceptsCmd.Flags().StringVar(&flagConceptsTrack, "track", "", "commerce or arts (default: all)")
}

func renderConcepts(w io.Writer, list aggregator.ConceptList) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", list.Track, len(list.Concepts))))
	for _, id := range list.Concepts {
		fmt.Fprintf(w, "  %s\n", conceptStyle.Render(id))
	}
}
