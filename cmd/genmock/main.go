// Command genmock writes a synthetic hourly observation CSV in the
// OpenWeather history export layout. The series is deterministic for a
// given seed: a diurnal temperature cycle, a drifting pressure trace and
// occasional rain spells.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/generated.csv \
//	  -start 2020-06-15T00:00:00Z -hours 72 \
//	  -city Lisbon -lat 38.7167 -lon -9.1333 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

type options struct {
	start    time.Time
	hours    int
	city     string
	lat, lon float64
	seed     uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	start := flag.String("start", "2020-06-15T00:00:00Z", "first observation time (RFC 3339)")
	hours := flag.Int("hours", 24, "number of hourly rows")
	city := flag.String("city", "Lisbon", "city_name value")
	lat := flag.Float64("lat", 38.7167, "latitude")
	lon := flag.Float64("lon", -9.1333, "longitude")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" || *hours <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out and a positive -hours")
	}
	ts, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := options{start: ts.UTC(), hours: *hours, city: *city, lat: *lat, lon: *lon, seed: *seed}
	if err := generate(f, opts); err != nil {
		return err
	}
	log.Printf("wrote %d rows to %s", *hours, *out)
	return nil
}

func generate(w io.Writer, o options) error {
	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.RequiredColumns); err != nil {
		return err
	}

	pressure := 1013.0
	rainLeft := 0
	for i := range o.hours {
		at := o.start.Add(time.Duration(i) * time.Hour)
		hour := float64(at.Hour())

		temp := 288 + 7*math.Sin((hour-9)/24*2*math.Pi) + rng.NormFloat64()*0.6
		pressure += rng.NormFloat64() * 0.7
		if rainLeft == 0 && rng.Float64() < 0.04 {
			rainLeft = 2 + rng.IntN(5)
		}
		raining := rainLeft > 0
		if raining {
			rainLeft--
		}

		humidity := 55 + rng.Float64()*20
		clouds := rng.Float64() * 60
		visibility := 10000.0
		cond, desc, id := "Clouds", "scattered clouds", 802
		rain1h := ""
		switch {
		case raining:
			humidity += 15
			clouds = 85 + rng.Float64()*15
			visibility = 4000 + rng.Float64()*5000
			cond, desc, id = domain.CondRain, "light rain", 500
			rain1h = fmtFloat(0.1 + rng.Float64()*2)
		case clouds <= 10:
			cond, desc, id = domain.CondClear, "sky is clear", 800
		}
		wind := 1 + rng.Float64()*8
		gust := ""
		if wind > 6 {
			gust = fmtFloat(wind * (1.3 + rng.Float64()*0.5))
		}

		row := map[string]string{
			domain.ColDt:                 strconv.FormatInt(at.Unix(), 10),
			domain.ColDtISO:              at.Format("2006-01-02 15:04:05") + " +0000 UTC",
			domain.ColTimezone:           "0",
			domain.ColCityName:           o.city,
			domain.ColLat:                fmtFloat(o.lat),
			domain.ColLon:                fmtFloat(o.lon),
			domain.ColTemp:               fmtFloat(temp),
			domain.ColVisibility:         fmtFloat(math.Round(visibility)),
			domain.ColDewPoint:           fmtFloat(temp - (100-math.Min(humidity, 100))/5),
			domain.ColFeelsLike:          fmtFloat(temp - wind*0.3),
			domain.ColTempMin:            fmtFloat(temp - 0.8),
			domain.ColTempMax:            fmtFloat(temp + 0.8),
			domain.ColPressure:           fmtFloat(math.Round(pressure)),
			domain.ColHumidity:           fmtFloat(math.Round(math.Min(humidity, 100))),
			domain.ColWindSpeed:          fmtFloat(wind),
			domain.ColWindDeg:            strconv.Itoa(rng.IntN(360)),
			domain.ColWindGust:           gust,
			domain.ColRain1h:             rain1h,
			domain.ColCloudsAll:          fmtFloat(math.Round(clouds)),
			domain.ColWeatherID:          strconv.Itoa(id),
			domain.ColWeatherMain:        cond,
			domain.ColWeatherDescription: desc,
			domain.ColWeatherIcon:        icon(id, at.Hour()),
		}
		record := make([]string, len(domain.RequiredColumns))
		for j, name := range domain.RequiredColumns {
			record[j] = row[name]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func icon(id, hour int) string {
	code := "03"
	switch id {
	case 500:
		code = "10"
	case 800:
		code = "01"
	}
	if hour >= 6 && hour < 20 {
		return code + "d"
	}
	return code + "n"
}
