// Command gen-medals generates a synthetic medals CSV for exercising the
// dashboard without a real Olympic export.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/navadeep914/olampic-dataset/internal/csvio"
	"github.com/navadeep914/olampic-dataset/internal/medals"
)

var countries = []string{
	"United States", "China", "Russia", "Great Britain", "Germany",
	"Australia", "France", "Italy", "Japan", "South Korea",
	"Netherlands", "Brazil", "Kenya", "Jamaica", "Hungary",
}

var sports = []string{
	"Swimming", "Athletics", "Gymnastics", "Rowing", "Cycling",
	"Fencing", "Judo", "Shooting", "Weightlifting", "Wrestling",
}

var firstNames = []string{
	"Alex", "Maria", "Chen", "Yuki", "Ivan", "Sofia", "Liam", "Aisha",
	"Pedro", "Elena", "Kofi", "Hannah", "Marco", "Priya", "Erik",
}

var lastNames = []string{
	"Johnson", "Li", "Petrov", "Tanaka", "Silva", "Novak", "Brown",
	"Okafor", "Larsson", "Rossi", "Kim", "Mueller", "Dubois", "Costa",
}

var years = []int{1996, 2000, 2004, 2008, 2012}

func main() {
	output := flag.String("o", "medals_sample.csv", "output path")
	rows := flag.Int("n", 500, "number of rows")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	table := make([]medals.MedalRecord, 0, *rows)
	for i := 0; i < *rows; i++ {
		year := years[rng.Intn(len(years))]
		gold := rng.Intn(3)
		silver := rng.Intn(3)
		bronze := rng.Intn(2)
		if gold+silver+bronze == 0 {
			bronze = 1
		}

		record := medals.MedalRecord{
			Athlete: firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			Country: countries[rng.Intn(len(countries))],
			Year:    year,
			Date:    dateForYear(year),
			Sport:   sports[rng.Intn(len(sports))],
			Gold:    gold,
			Silver:  silver,
			Bronze:  bronze,
			Total:   gold + silver + bronze,
		}
		// Roughly a tenth of real exports carry no age
		if rng.Intn(10) > 0 {
			age := float64(17 + rng.Intn(20))
			record.Age = &age
		}
		table = append(table, record)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}
	defer f.Close()

	if err := csvio.Write(f, table); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}
	log.Printf("✓ Created: %s (%d rows)", *output, len(table))
}

// dateForYear fabricates a closing-ceremony date in the M/D/YYYY shape real
// exports use.
func dateForYear(year int) string {
	switch year {
	case 1996:
		return "8/4/1996"
	case 2000:
		return "10/1/2000"
	case 2004:
		return "8/29/2004"
	case 2008:
		return "8/24/2008"
	default:
		return "8/12/2012"
	}
}
