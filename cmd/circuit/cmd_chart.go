package main

import (
	"fmt"
	"io"
	"os"

	"github.com/groupsky/game-4-sub001/load"
	"github.com/groupsky/game-4-sub001/mna"
	"github.com/groupsky/game-4-sub001/mna/debug"
	"github.com/spf13/cobra"
)

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart <scenario>",
		Short: "执行场景并生成 HTML 曲线页面",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			page := debug.NewCharts()
			if err := record(cmd, args[0], page, page.Record); err != nil {
				return err
			}
			return writeOutput(cmd, output, page.Render)
		},
	}
	cmd.Flags().StringP("output", "o", "circuit.html", "输出文件, - 表示标准输出")
	return cmd
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <scenario>",
		Short: "执行场景并生成 PNG 曲线图",
		Long: `执行场景并把某个物理量绘制为 PNG。

Examples:
  circuit plot flash.yaml --quantity voltage --id c1 -o c1.png
  circuit plot endurance.yaml --quantity charge`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			quantity, _ := cmd.Flags().GetString("quantity")
			ids, _ := cmd.Flags().GetStringSlice("id")
			rec := debug.NewRecord()
			if err := record(cmd, args[0], rec, rec); err != nil {
				return err
			}
			p := debug.NewPlot(rec)
			return writeOutput(cmd, output, func(w io.Writer) error {
				return p.WritePNG(w, debug.Quantity(quantity), ids...)
			})
		},
	}
	cmd.Flags().StringP("output", "o", "circuit.png", "输出文件, - 表示标准输出")
	cmd.Flags().String("quantity", string(debug.QuantityBrightness), "物理量: current, voltage, brightness, charge")
	cmd.Flags().StringSlice("id", nil, "只绘制这些元件")
	return cmd
}

// record 执行场景, dbg 记录每一拍到 rec
func record(cmd *cobra.Command, path string, dbg mna.Debug, rec *debug.Record) error {
	sc, err := load.LoadFile(path)
	if err != nil {
		return err
	}
	cir, err := newCircuit(cmd, dbg)
	if err != nil {
		return err
	}
	if _, err := sc.Run(cir, nil); err != nil {
		return err
	}
	if rec.Len() == 0 {
		return fmt.Errorf("场景没有推进任何一拍")
	}
	return nil
}

func writeOutput(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "-" {
		return render(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "已写入 %s\n", path)
	return nil
}
