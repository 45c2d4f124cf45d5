package dataset

import (
	"math"
	"math/rand"
)

// Synthesize generates n plausible sessions for trying the pipeline without
// the real dataset. Roughly one session in six ends in a purchase, and buying
// sessions browse more product pages with higher page values, so a nearest
// neighbour model can separate the classes reasonably but not perfectly.
func Synthesize(n int, rnd *rand.Rand) Dataset {
	ds := Dataset{
		Records: make([]Record, n),
		Labels:  make([]Label, n),
	}

	for i := 0; i < n; i++ {
		buyer := rnd.Float64() < 0.16

		// Buyers look at more products and reach pages with value
		products := 1 + int(math.Abs(rnd.NormFloat64())*20)
		pageValue := 0.0
		bounce := 0.01 + rnd.Float64()*0.05
		if buyer {
			products += 15 + rnd.Intn(30)
			pageValue = 10 + math.Abs(rnd.NormFloat64())*30
			bounce /= 3
		} else if rnd.Float64() < 0.15 {
			pageValue = math.Abs(rnd.NormFloat64()) * 5
		}

		admin := rnd.Intn(6)
		info := rnd.Intn(3)
		month := rnd.Intn(len(months))
		special := 0.0
		if month == 1 || month == 4 {
			special = float64(rnd.Intn(6)) / 5
		}

		ds.Records[i] = Record{
			Administrative:         admin,
			AdministrativeDuration: round2(float64(admin) * (20 + rnd.Float64()*60)),
			Informational:          info,
			InformationalDuration:  round2(float64(info) * (10 + rnd.Float64()*80)),
			ProductRelated:         products,
			ProductRelatedDuration: round2(float64(products) * (20 + rnd.Float64()*40)),
			BounceRates:            round4(bounce),
			ExitRates:              round4(bounce + 0.01 + rnd.Float64()*0.04),
			PageValues:             round2(pageValue),
			SpecialDay:             special,
			Month:                  month,
			OperatingSystems:       1 + rnd.Intn(8),
			Browser:                1 + rnd.Intn(13),
			Region:                 1 + rnd.Intn(9),
			TrafficType:            1 + rnd.Intn(20),
			VisitorType:            boolInt(rnd.Float64() < 0.85),
			Weekend:                boolInt(rnd.Float64() < 0.23),
		}
		ds.Labels[i] = boolInt(buyer)
	}

	return ds
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round4(f float64) float64 { return math.Round(f*10000) / 10000 }
