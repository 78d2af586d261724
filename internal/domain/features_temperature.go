package domain

import "math"

// Temperature feature columns.
const (
	ColComfortIndex       = "comfort_index"
	ColHeatIndex          = "heat_index"
	ColDewPointDepression = "dew_point_depression"
	ColApparentTempDiff   = "apparent_temp_diff"
	ColWindChill          = "wind_chill"
	ColTempRange          = "temp_range"
	ColHumidex            = "humidex"
	ColTempDifference     = "temp_difference"
)

// ComfortIndex is a simplified discomfort score from air temperature (°C)
// and relative humidity (%).
func ComfortIndex(tc, rh float64) float64 {
	return (tc - 0.55*(1-rh/100)) * (tc - 14.5)
}

// HeatIndex applies the NOAA regression above 27 °C and returns tc
// unchanged below it.
func HeatIndex(tc, rh float64) float64 {
	if tc <= 27 {
		return tc
	}
	return -8.7846947556 +
		1.61139411*tc +
		2.33854883889*rh/100 -
		0.14611605*tc*rh/100
}

// WindChill applies the JAG/TI formula below 10 °C and returns tc
// unchanged otherwise.
func WindChill(tc, speed float64) float64 {
	if tc >= 10 {
		return tc
	}
	v := math.Pow(speed, 0.16)
	return 13.12 + 0.6215*tc - 11.37*v + 0.3965*tc*v
}

// Humidex is the Canadian humidity index. The dew point must be in Kelvin.
func Humidex(tc, dewPointK float64) float64 {
	e := 6.11 * math.Exp(5417.7530*(1/273.16-1/dewPointK))
	return tc + 0.5555*(e-10)
}

func temperatureFeatures(t Table, opts FeatureOptions) ([]*Column, error) {
	n := t.Len()
	temp := temperatureOf(t, opts, ColTemp)
	dew := temperatureOf(t, opts, ColDewPoint)
	feels := temperatureOf(t, opts, ColFeelsLike)
	humidity := column(t, ColHumidity)
	speed := column(t, ColWindSpeed)
	display := opts.Unit

	withHumidity := func(name string, fn func(tc, rh float64) float64) *Column {
		return mapFloat(name, n, func(i int) (float64, bool) {
			tc, ok := temp.celsius(i)
			rh, okRH := floatAt(humidity, i)
			if !ok || !okRH {
				return 0, false
			}
			return fn(tc, rh), true
		})
	}

	return []*Column{
		withHumidity(ColComfortIndex, ComfortIndex),
		mapFloat(ColHeatIndex, n, func(i int) (float64, bool) {
			tc, ok := temp.celsius(i)
			if !ok {
				return 0, false
			}
			if tc <= 27 {
				return tc, true
			}
			rh, ok := floatAt(humidity, i)
			if !ok {
				return 0, false
			}
			return HeatIndex(tc, rh), true
		}),
		difference(ColDewPointDepression, n, temp, dew, display),
		difference(ColApparentTempDiff, n, feels, temp, display),
		mapFloat(ColWindChill, n, func(i int) (float64, bool) {
			tc, ok := temp.celsius(i)
			if !ok {
				return 0, false
			}
			if tc >= 10 {
				return tc, true
			}
			v, ok := floatAt(speed, i)
			if !ok || v < 0 {
				return 0, false
			}
			return WindChill(tc, v), true
		}),
		temperatureRange(ColTempRange, t, opts),
		mapFloat(ColHumidex, n, func(i int) (float64, bool) {
			tc, ok := temp.celsius(i)
			dk, okDew := dew.kelvin(i)
			if !ok || !okDew || dk == 0 {
				return 0, false
			}
			return Humidex(tc, dk), true
		}),
	}, nil
}

// difference computes a − b with both readings in unit u.
func difference(name string, n int, a, b temperature, u TemperatureUnit) *Column {
	return mapFloat(name, n, func(i int) (float64, bool) {
		x, okA := a.in(u, i)
		y, okB := b.in(u, i)
		if !okA || !okB {
			return 0, false
		}
		return x - y, true
	})
}

func temperatureRange(name string, t Table, opts FeatureOptions) *Column {
	return difference(name, t.Len(),
		temperatureOf(t, opts, ColTempMax),
		temperatureOf(t, opts, ColTempMin),
		opts.Unit)
}

// temperatureDifference keeps the older temp_difference name alongside
// temp_range.
func temperatureDifference(t Table, opts FeatureOptions) ([]*Column, error) {
	return []*Column{temperatureRange(ColTempDifference, t, opts)}, nil
}
