package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/workload"
)

var errNoOutput = errors.New("no output file")

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the requests of a matrix multiplication.",
	Long: "Writes the reads and writes of multiplying two n*n word " +
		"matrices to a CSV file that `cachesim run` accepts. With " +
		"--test, reads carry their expected data for `run --verify`.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		n, _ := cmd.Flags().GetInt("size")
		test, _ := cmd.Flags().GetBool("test")
		output, _ := cmd.Flags().GetString("output")

		if n < 1 {
			return fmt.Errorf("matrix size %d must be positive", n)
		}

		if output == "" {
			return errNoOutput
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}

		reqs := workload.GenerateMatMul(n, test)

		if err := workload.WriteCSV(f, reqs); err != nil {
			f.Close()
			return err
		}

		if err := f.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d requests\n", output, len(reqs))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntP("size", "s", 4, "Size of the matrices")
	generateCmd.Flags().BoolP("test", "t", false,
		"Attach the expected data to the reads")
	generateCmd.Flags().StringP("output", "o", "requests.csv",
		"CSV file to write")
}
