package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/0x0FACED/go-skeleton/pkg/logger"
	"github.com/0x0FACED/go-skeleton/pkg/skeleton"
	"github.com/0x0FACED/go-skeleton/static"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/paulmach/orb"
)

// Готовые фигуры для демо
func presetShape(name string) orb.MultiPolygon {
	switch name {
	case "arrow":
		// невыпуклый контур, при сжатии распадается на две части
		return orb.MultiPolygon{
			{orb.Ring{{0, 0}, {4, 0}, {4, 4}, {2, 1}, {0, 4}, {0, 0}}},
		}
	case "two-squares":
		// два квадрата, при раздувании сливаются в один контур
		return orb.MultiPolygon{
			{orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}},
			{orb.Ring{{3, 0}, {5, 0}, {5, 2}, {3, 2}, {3, 0}}},
		}
	case "square-hole":
		return orb.MultiPolygon{
			{
				orb.Ring{{0, 0}, {6, 0}, {6, 6}, {0, 6}, {0, 0}},
				orb.Ring{{2, 2}, {2, 4}, {4, 4}, {4, 2}, {2, 2}},
			},
		}
	default:
		return orb.MultiPolygon{
			{orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}},
		}
	}
}

func prepareScatter(scatter *charts.Scatter) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "580px",
			Width:  "1020px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                "Буфер полигона (прямой скелет)",
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "X",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Y",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

func ringToLine(name string, ring orb.Ring, width float32) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
	)

	data := make([]opts.LineData, 0, len(ring)+1)
	for _, p := range ring {
		data = append(data, opts.LineData{Value: []float64{p.X(), p.Y()}})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		data = append(data, opts.LineData{Value: []float64{ring[0].X(), ring[0].Y()}})
	}

	line.AddSeries(name, data).SetSeriesOptions(
		charts.WithLineStyleOpts(opts.LineStyle{
			Width: width,
		}),
	)
	return line
}

// Преобразуем вход и результат в Echarts для отображения
func bufferToEcharts(input, output orb.MultiPolygon) *charts.Scatter {
	scatter := charts.NewScatter()

	points := make([]opts.ScatterData, 0)
	for _, p := range input {
		for _, ring := range p {
			for _, pt := range ring {
				points = append(points, opts.ScatterData{
					Value: []float64{pt.X(), pt.Y()},
				})
			}
		}
	}

	// Дизайним скаттер
	prepareScatter(scatter)

	scatter.AddSeries("Вершины входа", points).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	for _, p := range input {
		for _, ring := range p {
			scatter.Overlap(ringToLine("Исходный контур", ring, 2))
		}
	}
	for _, p := range output {
		for _, ring := range p {
			scatter.Overlap(ringToLine("Буфер", ring, 3))
		}
	}

	return scatter
}

// http обработчик страницы с буфером и формой для ввода данных
func bufferHandler(w http.ResponseWriter, r *http.Request) {
	shape := "arrow"
	distance := -0.45

	if r.Method == http.MethodPost {
		r.ParseForm()
		shape = r.FormValue("shape")
		if d, err := strconv.ParseFloat(r.FormValue("distance"), 64); err == nil {
			distance = d
		}
	}

	input := presetShape(shape)

	logger := logger.New()
	defer logger.ClearLogs()

	output := skeleton.BufferMultiPolygonWithLogger(input, distance, logger)

	scatter := bufferToEcharts(input, output)

	fmt.Fprintln(w, static.Part1)

	err := scatter.Render(w)
	if err != nil {
		fmt.Println("Ошибка рендеринга диаграммы:", err)
	}

	fmt.Fprintln(w, static.Part2)

	// Вставляем логи в HTML
	for _, log := range logger.Logs {
		fmt.Fprintln(w, log)
	}

	fmt.Fprintln(w, static.Part3)
}

func main() {
	http.HandleFunc("/", bufferHandler)
	fmt.Println("Сервер запущен на http://localhost:8080")
	err := http.ListenAndServe(":8080", nil)
	if err != nil {
		fmt.Println("Err ListenAndServe", err)
	}
}
