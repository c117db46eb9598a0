package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/groupsky/game-4-sub001/load"
	"github.com/groupsky/game-4-sub001/types"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "执行场景并输出元件状态",
		Long: `执行场景文件,默认只输出最后一拍的元件状态。

Examples:
  circuit run flash.yaml
  circuit run flash.yaml --every --json
  circuit run flash.yaml --islands`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			every, _ := cmd.Flags().GetBool("every")
			jsonOut, _ := cmd.Flags().GetBool("json")
			islands, _ := cmd.Flags().GetBool("islands")

			sc, err := load.LoadFile(args[0])
			if err != nil {
				return err
			}
			cir, err := newCircuit(cmd, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var observe load.Observer
			if every {
				observe = func(step, tick int, time float64, components []types.Component) {
					writeTick(out, jsonOut, step, tick, time, components)
				}
			}
			final, err := sc.Run(cir, observe)
			if err != nil {
				return err
			}
			if !every {
				writeTick(out, jsonOut, len(sc.Steps)-1, -1, cir.Time(), final)
			}
			if islands {
				for _, r := range cir.Islands() {
					fmt.Fprintln(out, r.String())
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("every", false, "输出每一拍")
	cmd.Flags().Bool("json", false, "以 JSON 行输出")
	cmd.Flags().Bool("islands", false, "输出最后一拍的孤岛摘要")
	return cmd
}

// tickOutput JSON 行
type tickOutput struct {
	Step       int               `json:"step"`
	Tick       int               `json:"tick"`
	Time       float64           `json:"time"`
	Components []types.Component `json:"components"`
}

func writeTick(w io.Writer, jsonOut bool, step, tick int, time float64, components []types.Component) {
	if jsonOut {
		json.NewEncoder(w).Encode(tickOutput{Step: step, Tick: tick, Time: time, Components: components})
		return
	}
	fmt.Fprintf(w, "t=%.3fs\n", time)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tVOLTAGE\tCHARGE\tCURRENT\tBRIGHTNESS\tPOWER\tFLAGS")
	for _, c := range components {
		flags := ""
		if c.OverCurrent {
			flags += "over-current "
		}
		if c.Hot {
			flags += "hot"
		}
		charge := "-"
		if c.Kind == types.KindBattery {
			charge = fmt.Sprintf("%d%%", c.ChargePercent())
		}
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%s\t%.4f\t%.4f\t%.4f\t%s\n",
			c.ID, c.Kind, c.Voltage, charge, c.Current, c.Brightness, c.Power, flags)
	}
	tw.Flush()
}
