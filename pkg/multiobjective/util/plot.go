package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/archive"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
)

// rankSymbols cycles through marker shapes so neighbouring ranks stay distinguishable.
var rankSymbols = []string{"triangle", "diamond", "rect", "roundRect", "pin", "arrow"}

// PlotArchive renders a scatter plot comparing the true Pareto front with the
// first ranks of the archive, as HTML written to w. Only two-objective problems
// can be plotted. maxRanks limits how many ranks are drawn; empty ranks are skipped.
func PlotArchive(w io.Writer, a *archive.Archive, name string, trueFront []framework.ObjectiveSpacePoint, maxRanks int) error {
	if a.Len() == 0 || a.Rank(0).Occupied() == 0 {
		return fmt.Errorf("archive is empty for %s Benchmark", name)
	}
	if objs := len(a.Sentinel().Objectives); objs != 2 {
		return fmt.Errorf("can only plot 2D for %s Benchmark, got %d objectives", name, objs)
	}

	// Create scatter chart
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Archive for %s Benchmark", name),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "f1(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "f2(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	if len(trueFront) > 0 {
		trueX := make([]opts.ScatterData, len(trueFront))
		for i, p := range trueFront {
			trueX[i] = opts.ScatterData{
				Value:      []float64(p),
				Symbol:     "circle",
				SymbolSize: 10,
			}
		}
		scatter.AddSeries("True Pareto Front", trueX)
	}

	for r := 0; r < a.Len() && r < maxRanks; r++ {
		members := a.Members(r)
		if len(members) == 0 {
			continue
		}
		found := make([]opts.ScatterData, len(members))
		for i, m := range members {
			found[i] = opts.ScatterData{
				Value:      []float64{m.Objectives[0], m.Objectives[1]},
				Symbol:     rankSymbols[r%len(rankSymbols)],
				SymbolSize: 10,
			}
		}
		scatter.AddSeries(fmt.Sprintf("Rank %d", r), found)
	}

	scatter.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
		charts.WithEmphasisOpts(opts.Emphasis{}),
	)

	return scatter.Render(w)
}
