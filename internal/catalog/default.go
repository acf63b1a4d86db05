package catalog

import "sync"

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded bright-star catalog. Positions are J2000;
// the brightest nearby stars carry Hipparcos proper motion and parallax.
// Every star referenced by the embedded constellation figures is present.
func Default() *Catalog {
	defaultOnce.Do(func() {
		stars := make([]Star, 0, len(defaultStars))
		for _, r := range defaultStars {
			stars = append(stars, Star{
				ID:          r.hip,
				Name:        r.name,
				RAdeg:       r.ra,
				DecDeg:      r.dec,
				Mag:         r.mag,
				PMRAmas:     r.pmRA,
				PMDecmas:    r.pmDec,
				ParallaxMas: r.plx,
				EpochJD:     EpochJ2000,
			})
		}
		cat, err := New(stars)
		if err != nil {
			panic("catalog: embedded table: " + err.Error())
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

type starRow struct {
	hip          int
	name         string
	ra, dec, mag float64
	pmRA, pmDec  float64
	plx          float64
}

// defaultStars is ordered roughly by magnitude (brightest first).
var defaultStars = []starRow{
	// Magnitude < 0.5
	{hip: 32349, name: "Sirius", ra: 101.287, dec: -16.716, mag: -1.46, pmRA: -546.01, pmDec: -1223.08, plx: 379.21},
	{hip: 30438, name: "Canopus", ra: 95.988, dec: -52.696, mag: -0.74, pmRA: 19.99, pmDec: 23.67, plx: 10.43},
	{hip: 71683, name: "Rigil Kentaurus", ra: 219.920, dec: -60.835, mag: -0.01, pmRA: -3678.19, pmDec: 481.84, plx: 742.12},
	{hip: 69673, name: "Arcturus", ra: 213.915, dec: 19.182, mag: -0.05, pmRA: -1093.45, pmDec: -1999.40, plx: 88.85},
	{hip: 91262, name: "Vega", ra: 279.235, dec: 38.784, mag: 0.03, pmRA: 201.02, pmDec: 287.46, plx: 128.93},
	{hip: 24608, name: "Capella", ra: 79.172, dec: 45.998, mag: 0.08, pmRA: 75.52, pmDec: -427.13, plx: 77.29},
	{hip: 24436, name: "Rigel", ra: 78.634, dec: -8.202, mag: 0.13, pmRA: 1.87, pmDec: -0.56, plx: 4.22},
	{hip: 37279, name: "Procyon", ra: 114.826, dec: 5.225, mag: 0.34, pmRA: -716.57, pmDec: -1034.58, plx: 285.93},
	{hip: 7588, name: "Achernar", ra: 24.429, dec: -57.237, mag: 0.46, pmRA: 88.02, pmDec: -40.08, plx: 22.68},

	// Magnitude 0.5-1.0
	{hip: 27989, name: "Betelgeuse", ra: 88.793, dec: 7.407, mag: 0.50, pmRA: 27.33, pmDec: 10.86, plx: 7.63},
	{hip: 68702, name: "Hadar", ra: 210.956, dec: -60.373, mag: 0.61, pmRA: -33.96, pmDec: -25.06, plx: 6.21},
	{hip: 97649, name: "Altair", ra: 297.696, dec: 8.868, mag: 0.76, pmRA: 536.82, pmDec: 385.54, plx: 194.44},
	{hip: 60718, name: "Acrux", ra: 186.650, dec: -63.099, mag: 0.76, pmRA: -35.37, pmDec: -14.73, plx: 10.17},
	{hip: 21421, name: "Aldebaran", ra: 68.980, dec: 16.509, mag: 0.85, pmRA: 62.78, pmDec: -189.36, plx: 50.09},
	{hip: 80763, name: "Antares", ra: 247.352, dec: -26.432, mag: 0.96, pmRA: -10.16, pmDec: -23.21, plx: 5.40},
	{hip: 65474, name: "Spica", ra: 201.298, dec: -11.161, mag: 0.97, pmRA: -42.50, pmDec: -31.73, plx: 12.44},

	// Magnitude 1.0-1.5
	{hip: 37826, name: "Pollux", ra: 116.329, dec: 28.026, mag: 1.14, pmRA: -625.69, pmDec: -45.95, plx: 96.74},
	{hip: 113368, name: "Fomalhaut", ra: 344.413, dec: -29.622, mag: 1.16, pmRA: 329.22, pmDec: -164.22, plx: 130.08},
	{hip: 102098, name: "Deneb", ra: 310.358, dec: 45.280, mag: 1.25, pmRA: 1.56, pmDec: 1.55, plx: 1.01},
	{hip: 62434, name: "Mimosa", ra: 191.930, dec: -59.689, mag: 1.25},
	{hip: 49669, name: "Regulus", ra: 152.093, dec: 11.967, mag: 1.35, pmRA: -249.40, pmDec: 4.91, plx: 42.09},
	{hip: 33579, name: "Adhara", ra: 104.656, dec: -28.972, mag: 1.50},

	// Magnitude 1.5-2.0
	{hip: 36850, name: "Castor", ra: 113.650, dec: 31.889, mag: 1.58},
	{hip: 61084, name: "Gacrux", ra: 187.791, dec: -57.113, mag: 1.63},
	{hip: 85927, name: "Shaula", ra: 263.402, dec: -37.104, mag: 1.63},
	{hip: 25336, name: "Bellatrix", ra: 81.283, dec: 6.350, mag: 1.64},
	{hip: 25428, name: "Elnath", ra: 81.573, dec: 28.608, mag: 1.65},
	{hip: 45238, name: "Miaplacidus", ra: 138.300, dec: -69.717, mag: 1.68},
	{hip: 26311, name: "Alnilam", ra: 84.053, dec: -1.202, mag: 1.69},
	{hip: 109268, name: "Alnair", ra: 332.058, dec: -46.961, mag: 1.74},
	{hip: 26727, name: "Alnitak", ra: 85.190, dec: -1.943, mag: 1.77},
	{hip: 62956, name: "Alioth", ra: 193.507, dec: 55.960, mag: 1.77},
	{hip: 54061, name: "Dubhe", ra: 165.932, dec: 61.751, mag: 1.79},
	{hip: 15863, name: "Mirfak", ra: 51.081, dec: 49.861, mag: 1.79},
	{hip: 34444, name: "Wezen", ra: 107.098, dec: -26.393, mag: 1.84},
	{hip: 90185, name: "Kaus Australis", ra: 276.043, dec: -34.384, mag: 1.85},
	{hip: 41037, name: "Avior", ra: 125.629, dec: -59.509, mag: 1.86},
	{hip: 67301, name: "Alkaid", ra: 206.885, dec: 49.313, mag: 1.86},
	{hip: 86228, name: "Sargas", ra: 264.330, dec: -42.998, mag: 1.87},
	{hip: 28360, name: "Menkalinan", ra: 89.882, dec: 44.948, mag: 1.90},
	{hip: 82273, name: "Atria", ra: 252.166, dec: -69.028, mag: 1.92},
	{hip: 31681, name: "Alhena", ra: 99.428, dec: 16.399, mag: 1.93},
	{hip: 100751, name: "Peacock", ra: 306.412, dec: -56.735, mag: 1.94},
	{hip: 30324, name: "Mirzam", ra: 95.675, dec: -17.956, mag: 1.98},
	{hip: 46390, name: "Alphard", ra: 141.897, dec: -8.659, mag: 2.00},
	{hip: 11767, name: "Polaris", ra: 37.954, dec: 89.264, mag: 2.02, pmRA: 44.22, pmDec: -11.74, plx: 7.56},

	// Magnitude 2.0-2.5
	{hip: 9884, name: "Hamal", ra: 31.793, dec: 23.463, mag: 2.00},
	{hip: 3419, name: "Diphda", ra: 10.897, dec: -17.987, mag: 2.02},
	{hip: 92855, name: "Nunki", ra: 283.816, dec: -26.297, mag: 2.02},
	{hip: 65378, name: "Mizar", ra: 200.981, dec: 54.925, mag: 2.04},
	{hip: 5447, name: "Mirach", ra: 17.433, dec: 35.621, mag: 2.05},
	{hip: 677, name: "Alpheratz", ra: 2.097, dec: 29.091, mag: 2.06},
	{hip: 72607, name: "Kochab", ra: 222.676, dec: 74.156, mag: 2.08},
	{hip: 86032, name: "Rasalhague", ra: 263.734, dec: 12.560, mag: 2.08},
	{hip: 50583, name: "Algieba", ra: 154.993, dec: 19.842, mag: 2.08},
	{hip: 27366, name: "Saiph", ra: 86.939, dec: -9.670, mag: 2.09},
	{hip: 9640, name: "Almach", ra: 30.975, dec: 42.330, mag: 2.10},
	{hip: 14576, name: "Algol", ra: 47.042, dec: 40.957, mag: 2.12},
	{hip: 57632, name: "Denebola", ra: 177.265, dec: 14.572, mag: 2.13},
	{hip: 76267, name: "Alphecca", ra: 233.672, dec: 26.715, mag: 2.23},
	{hip: 25930, name: "Mintaka", ra: 83.002, dec: -0.299, mag: 2.23},
	{hip: 100453, name: "Sadr", ra: 305.557, dec: 40.257, mag: 2.23},
	{hip: 87833, name: "Eltanin", ra: 269.152, dec: 51.489, mag: 2.23},
	{hip: 3179, name: "Schedar", ra: 10.127, dec: 56.537, mag: 2.23},
	{hip: 746, name: "Caph", ra: 2.295, dec: 59.150, mag: 2.27},
	{hip: 82396, name: "Larawag", ra: 252.541, dec: -34.293, mag: 2.29},
	{hip: 78401, name: "Dschubba", ra: 240.083, dec: -22.622, mag: 2.32},
	{hip: 53910, name: "Merak", ra: 165.460, dec: 56.382, mag: 2.37},
	{hip: 72105, name: "Izar", ra: 221.247, dec: 27.074, mag: 2.37},
	{hip: 107315, name: "Enif", ra: 326.046, dec: 9.875, mag: 2.39},
	{hip: 86670, name: "Girtab", ra: 265.622, dec: -39.030, mag: 2.41},
	{hip: 113881, name: "Scheat", ra: 345.944, dec: 28.083, mag: 2.42},
	{hip: 58001, name: "Phecda", ra: 178.458, dec: 53.695, mag: 2.44},
	{hip: 35904, name: "Aludra", ra: 111.024, dec: -29.303, mag: 2.45},
	{hip: 4427, name: "Navi", ra: 14.177, dec: 60.717, mag: 2.47},
	{hip: 113963, name: "Markab", ra: 346.190, dec: 15.205, mag: 2.49},
	{hip: 102488, name: "Aljanah", ra: 311.553, dec: 33.970, mag: 2.48},

	// Magnitude 2.5-3.0
	{hip: 54872, name: "Zosma", ra: 168.527, dec: 20.524, mag: 2.56},
	{hip: 78820, name: "Acrab", ra: 241.359, dec: -19.805, mag: 2.62},
	{hip: 28380, name: "Mahasim", ra: 89.930, dec: 37.213, mag: 2.62},
	{hip: 67927, name: "Muphrid", ra: 208.671, dec: 18.398, mag: 2.68},
	{hip: 6686, name: "Ruchbah", ra: 21.454, dec: 60.235, mag: 2.68},
	{hip: 23015, name: "Hassaleh", ra: 74.248, dec: 33.166, mag: 2.69},
	{hip: 85696, name: "Lesath", ra: 262.691, dec: -37.296, mag: 2.70},
	{hip: 97278, name: "Tarazed", ra: 296.565, dec: 10.613, mag: 2.72},
	{hip: 59747, name: "Imai", ra: 183.786, dec: -58.749, mag: 2.79},
	{hip: 81266, name: "Paikauhale", ra: 248.971, dec: -28.216, mag: 2.82},
	{hip: 1067, name: "Algenib", ra: 3.309, dec: 15.184, mag: 2.83},
	{hip: 97165, name: "Fawaris", ra: 296.244, dec: 45.131, mag: 2.87},
	{hip: 30343, name: "Tejat", ra: 95.740, dec: 22.513, mag: 2.88},
	{hip: 78265, name: "Fang", ra: 239.713, dec: -26.114, mag: 2.89},
	{hip: 23416, name: "Almaaz", ra: 75.492, dec: 43.823, mag: 2.99},
	{hip: 93747, name: "Okab", ra: 286.353, dec: 13.863, mag: 2.99},

	// Magnitude 3.0-3.5
	{hip: 26451, name: "Tianguan", ra: 84.411, dec: 21.142, mag: 3.00},
	{hip: 82514, name: "Xamidimura", ra: 252.968, dec: -38.047, mag: 3.00},
	{hip: 30122, name: "Furud", ra: 95.078, dec: -30.063, mag: 3.02},
	{hip: 71075, name: "Seginus", ra: 218.020, dec: 38.308, mag: 3.04},
	{hip: 32246, name: "Mebsuta", ra: 100.983, dec: 25.131, mag: 3.06},
	{hip: 95947, name: "Albireo", ra: 292.680, dec: 27.960, mag: 3.18},
	{hip: 99473, name: "Theta Aql", ra: 302.826, dec: -0.821, mag: 3.23},
	{hip: 93194, name: "Sulafat", ra: 284.736, dec: 32.690, mag: 3.25},
	{hip: 3092, name: "Delta And", ra: 9.832, dec: 30.861, mag: 3.27},
	{hip: 29655, name: "Propus", ra: 93.719, dec: 22.506, mag: 3.28},
	{hip: 59774, name: "Megrez", ra: 183.857, dec: 57.033, mag: 3.31},
	{hip: 54879, name: "Chertan", ra: 168.560, dec: 15.430, mag: 3.33},
	{hip: 8886, name: "Segin", ra: 28.599, dec: 63.670, mag: 3.35},
	{hip: 95501, name: "Delta Aql", ra: 291.375, dec: 3.115, mag: 3.36},
	{hip: 26207, name: "Meissa", ra: 83.784, dec: 9.934, mag: 3.39},
	{hip: 112029, name: "Homam", ra: 340.751, dec: 10.831, mag: 3.40},
	{hip: 20894, name: "Chamukuy", ra: 67.166, dec: 15.871, mag: 3.40},
	{hip: 50335, name: "Adhafera", ra: 154.173, dec: 23.417, mag: 3.43},
	{hip: 93805, name: "Lambda Aql", ra: 286.562, dec: -4.883, mag: 3.43},
	{hip: 74666, name: "Delta Boo", ra: 228.876, dec: 33.315, mag: 3.46},
	{hip: 18724, name: "Lambda Tau", ra: 60.170, dec: 12.490, mag: 3.47},
	{hip: 49583, name: "Eta Leo", ra: 151.833, dec: 16.763, mag: 3.48},
	{hip: 73555, name: "Nekkar", ra: 225.487, dec: 40.391, mag: 3.49},

	// Magnitude 3.5 and fainter
	{hip: 92420, name: "Sheliak", ra: 282.520, dec: 33.363, mag: 3.52},
	{hip: 20889, name: "Ain", ra: 67.154, dec: 19.180, mag: 3.53},
	{hip: 35550, name: "Wasat", ra: 110.031, dec: 21.982, mag: 3.53},
	{hip: 109427, name: "Biham", ra: 332.550, dec: 6.198, mag: 3.53},
	{hip: 71053, name: "Rho Boo", ra: 217.957, dec: 30.371, mag: 3.58},
	{hip: 20205, name: "Prima Hyadum", ra: 64.948, dec: 15.628, mag: 3.65},
	{hip: 98036, name: "Alshain", ra: 298.828, dec: 6.407, mag: 3.71},
	{hip: 48455, name: "Rasalas", ra: 148.191, dec: 26.007, mag: 3.88},
	{hip: 92791, name: "Delta2 Lyr", ra: 283.626, dec: 36.899, mag: 4.22},
	{hip: 91971, name: "Zeta1 Lyr", ra: 281.193, dec: 37.605, mag: 4.34},
}
