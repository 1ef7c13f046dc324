package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const warrantyText = `This program is free software; you can redistribute it and/or modify
it under the terms of the GNU Lesser General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU Lesser General Public License for more details.

You should have received a copy of the GNU Lesser General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.`

var warrantyCmd = &cobra.Command{
	Use:   "warranty",
	Short: "Display the warranty",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), warrantyText)
	},
}

func init() {
	rootCmd.AddCommand(warrantyCmd)
}
