package solarterm

import (
	"math"
	"time"
)

const (
	unixEpochJD  = 2440587.5
	j2000        = 2451545.0
	tropicalYear = 365.2422
	secondsInDay = 86400.0
	arcsecond    = 1.0 / 3600
)

// julianDay converts an instant to a Julian Day (UT)
func julianDay(t time.Time) float64 {
	return float64(t.UnixNano())/1e9/secondsInDay + unixEpochJD
}

// fromJulianDay converts a Julian Day (UT) back to an instant, truncated to the second
func fromJulianDay(jd float64) time.Time {
	secs := (jd - unixEpochJD) * secondsInDay
	return time.Unix(int64(math.Round(secs)), 0).UTC()
}

// deltaT approximates TT − UT in seconds with the Espenak and Meeus
// polynomials, falling back to the long-term parabola outside 1800–2150.
func deltaT(jd float64) float64 {
	y := 2000 + (jd-j2000)/365.25
	switch {
	case y < 1800 || y >= 2150:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	case y < 1860:
		t := y - 1800
		return 13.72 - 0.332447*t + 0.0068612*math.Pow(t, 2) + 0.0041116*math.Pow(t, 3) -
			0.00037436*math.Pow(t, 4) + 0.0000121272*math.Pow(t, 5) -
			0.0000001699*math.Pow(t, 6) + 0.000000000875*math.Pow(t, 7)
	case y < 1900:
		t := y - 1860
		return 7.62 + 0.5737*t - 0.251754*math.Pow(t, 2) + 0.01680668*math.Pow(t, 3) -
			0.0004473624*math.Pow(t, 4) + math.Pow(t, 5)/233174
	case y < 1920:
		t := y - 1900
		return -2.79 + 1.494119*t - 0.0598939*math.Pow(t, 2) + 0.0061966*math.Pow(t, 3) -
			0.000197*math.Pow(t, 4)
	case y < 1941:
		t := y - 1920
		return 21.20 + 0.84493*t - 0.076100*math.Pow(t, 2) + 0.0020936*math.Pow(t, 3)
	case y < 1961:
		t := y - 1950
		return 29.07 + 0.407*t - math.Pow(t, 2)/233 + math.Pow(t, 3)/2547
	case y < 1986:
		t := y - 1975
		return 45.45 + 1.067*t - math.Pow(t, 2)/260 - math.Pow(t, 3)/718
	case y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*math.Pow(t, 2) + 0.0017275*math.Pow(t, 3) +
			0.000651814*math.Pow(t, 4) + 0.00002373599*math.Pow(t, 5)
	case y < 2050:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*math.Pow(t, 2)
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	}
}

// vsopTerm is one periodic term A·cos(B + C·τ), A in 1e-8 rad
type vsopTerm struct {
	a, b, c float64
}

// Heliocentric longitude of the Earth, VSOP87 truncated as in Meeus,
// Astronomical Algorithms, appendix III. Index i multiplies τ^i.
var earthLongitude = [6][]vsopTerm{
	{
		{175347046, 0, 0},
		{3341656, 4.6692568, 6283.0758500},
		{34894, 4.62610, 12566.15170},
		{3497, 2.7441, 5753.3849},
		{3418, 2.8289, 3.5231},
		{3136, 3.6277, 77713.7715},
		{2676, 4.4181, 7860.4194},
		{2343, 6.1352, 3930.2097},
		{1324, 0.7425, 11506.7698},
		{1273, 2.0371, 529.6910},
		{1199, 1.1096, 1577.3435},
		{990, 5.233, 5884.927},
		{902, 2.045, 26.298},
		{857, 3.508, 398.149},
		{780, 1.179, 5223.694},
		{753, 2.533, 5507.553},
		{505, 4.583, 18849.228},
		{492, 4.205, 775.523},
		{357, 2.920, 0.067},
		{317, 5.849, 11790.629},
		{284, 1.899, 796.298},
		{271, 0.315, 10977.079},
		{243, 0.345, 5486.778},
		{206, 4.806, 2544.314},
		{205, 1.869, 5573.143},
		{202, 2.458, 6069.777},
		{156, 0.833, 213.299},
		{132, 3.411, 2942.463},
		{126, 1.083, 20.775},
		{115, 0.645, 0.980},
		{103, 0.636, 4694.003},
		{102, 0.976, 15720.839},
		{102, 4.267, 7.114},
		{99, 6.21, 2146.17},
		{98, 0.68, 155.42},
		{86, 5.98, 161000.69},
		{85, 1.30, 6275.96},
		{85, 3.67, 71430.70},
		{80, 1.81, 17260.15},
		{79, 3.04, 12036.46},
		{75, 1.76, 5088.63},
		{74, 3.50, 3154.69},
		{74, 4.68, 801.82},
		{70, 0.83, 9437.76},
		{62, 3.98, 8827.39},
		{61, 1.82, 7084.90},
		{57, 2.78, 6286.60},
		{56, 4.39, 14143.50},
		{56, 3.47, 6279.55},
		{52, 0.19, 12139.55},
		{52, 1.33, 1748.02},
		{51, 0.28, 5856.48},
		{49, 0.49, 1194.45},
		{41, 5.37, 8429.24},
		{41, 2.40, 19651.05},
		{39, 6.17, 10447.39},
		{37, 6.04, 10213.29},
		{37, 2.57, 1059.38},
		{36, 1.71, 2352.87},
		{36, 1.78, 6812.77},
		{33, 0.59, 17789.85},
		{30, 0.44, 83996.85},
		{30, 2.74, 1349.87},
		{25, 3.16, 4690.48},
	},
	{
		{628331966747, 0, 0},
		{206059, 2.678235, 6283.075850},
		{4303, 2.6351, 12566.1517},
		{425, 1.590, 3.523},
		{119, 5.796, 26.298},
		{109, 2.966, 1577.344},
		{93, 2.59, 18849.23},
		{72, 1.14, 529.69},
		{68, 1.87, 398.15},
		{67, 4.41, 5507.55},
		{59, 2.89, 5223.69},
		{56, 2.17, 155.42},
		{45, 0.40, 796.30},
		{36, 0.47, 775.52},
		{29, 2.65, 7.11},
		{21, 5.34, 0.98},
		{19, 1.85, 5486.78},
		{19, 4.97, 213.30},
		{17, 2.99, 6275.96},
		{16, 0.03, 2544.31},
		{16, 1.43, 2146.17},
		{15, 1.21, 10977.08},
		{12, 2.83, 1748.02},
		{12, 3.26, 5088.63},
		{12, 5.27, 1194.45},
		{12, 2.08, 4694.00},
		{11, 0.77, 553.57},
		{10, 1.30, 6286.60},
		{10, 4.24, 1349.87},
		{9, 2.70, 242.73},
		{9, 5.64, 951.72},
		{8, 5.30, 2352.87},
		{6, 2.65, 9437.76},
		{6, 4.67, 4690.48},
	},
	{
		{52919, 0, 0},
		{8720, 1.0721, 6283.0758},
		{309, 0.867, 12566.152},
		{27, 0.05, 3.52},
		{16, 5.19, 26.30},
		{16, 3.68, 155.42},
		{10, 0.76, 18849.23},
		{9, 2.06, 77713.77},
		{7, 0.83, 775.52},
		{5, 4.66, 1577.34},
		{4, 1.03, 7.11},
		{4, 3.44, 5573.14},
		{3, 5.14, 796.30},
		{3, 6.05, 5507.55},
		{3, 1.19, 242.73},
		{3, 6.12, 529.69},
		{3, 0.31, 398.15},
		{3, 2.28, 553.57},
		{2, 4.38, 5223.69},
		{2, 3.75, 0.98},
	},
	{
		{289, 5.844, 6283.076},
		{35, 0, 0},
		{17, 5.49, 12566.15},
		{3, 5.20, 155.42},
		{1, 4.72, 3.52},
		{1, 5.30, 18849.23},
		{1, 5.97, 242.73},
	},
	{
		{114, 3.142, 0},
		{8, 4.13, 6283.08},
		{1, 3.84, 12566.15},
	},
	{
		{1, 3.14, 0},
	},
}

// apparentLongitude returns the sun's apparent ecliptic longitude in degrees
// for a Julian Day (UT): geometric longitude from VSOP87, FK5 correction,
// nutation in longitude and aberration. Good to about 1", which places
// term instants within a minute.
func apparentLongitude(jd float64) float64 {
	jde := jd + deltaT(jd)/secondsInDay
	tau := (jde - j2000) / 365250

	l := 0.0
	for i, series := range earthLongitude {
		sum := 0.0
		for _, term := range series {
			sum += term.a * math.Cos(term.b+term.c*tau)
		}
		l += sum * math.Pow(tau, float64(i))
	}

	t := tau * 10
	omega := radians(125.04452 - 1934.136261*t)
	sunMean := radians(280.4665 + 36000.7698*t)
	moonMean := radians(218.3165 + 481267.8813*t)
	nutation := (-17.20*math.Sin(omega) - 1.32*math.Sin(2*sunMean) -
		0.23*math.Sin(2*moonMean) + 0.21*math.Sin(2*omega)) * arcsecond

	geocentric := l/1e8*180/math.Pi + 180
	return normalizeDegrees(geocentric - 0.09033*arcsecond + nutation - 20.4898*arcsecond)
}

// crossing finds the instant the sun reaches longitude target, starting the
// Newton iteration at the estimate jd.
func crossing(target, jd float64) float64 {
	for i := 0; i < 50; i++ {
		diff := wrapDegrees(target - apparentLongitude(jd))
		step := diff / 360 * tropicalYear
		jd += step
		if math.Abs(step) < 1e-7 {
			break
		}
	}
	return jd
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// wrapDegrees maps an angle difference into (-180, 180]
func wrapDegrees(deg float64) float64 {
	deg = normalizeDegrees(deg)
	if deg > 180 {
		deg -= 360
	}
	return deg
}
