package synth

import (
	"math/rand"

	"github.com/brianvoe/gofakeit/v7"
)

// Vocabulary supplies the fake field values. Which words come out is outside
// the pipeline's contract; the synthesizer only cares about the shape.
type Vocabulary interface {
	// PersonName returns a customer name appropriate for the locale.
	PersonName(locale string) string
	// ProductName returns a commerce product name.
	ProductName() string
}

// FakeVocabulary is the default Vocabulary: gofakeit for product names and
// as the fallback name source, with small per-locale name banks for locales
// gofakeit has no notion of.
type FakeVocabulary struct {
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewFakeVocabulary creates a seeded vocabulary.
func NewFakeVocabulary(seed uint64) *FakeVocabulary {
	return &FakeVocabulary{
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(int64(seed))),
	}
}

func (v *FakeVocabulary) PersonName(locale string) string {
	bank, ok := nameBanks[locale]
	if !ok {
		return v.faker.Name()
	}
	given := bank.given[v.rng.Intn(len(bank.given))]
	family := bank.family[v.rng.Intn(len(bank.family))]
	return given + " " + family
}

func (v *FakeVocabulary) ProductName() string {
	return v.faker.ProductName()
}

type nameBank struct {
	given  []string
	family []string
}

var nameBanks = map[string]nameBank{
	"cs_CZ": {
		given:  []string{"Jana", "Petr", "Eva", "Tomáš", "Lucie", "Jakub", "Hana", "Martin"},
		family: []string{"Novák", "Svoboda", "Novotná", "Dvořák", "Černá", "Procházka", "Kučerová", "Veselý"},
	},
	"da_DK": {
		given:  []string{"Anne", "Lars", "Mette", "Søren", "Kirsten", "Jens", "Hanne", "Peter"},
		family: []string{"Jensen", "Nielsen", "Hansen", "Pedersen", "Andersen", "Christensen", "Larsen", "Sørensen"},
	},
	"de_AT": {
		given:  []string{"Anna", "Lukas", "Laura", "David", "Julia", "Florian", "Sarah", "Tobias"},
		family: []string{"Gruber", "Huber", "Bauer", "Wagner", "Müller", "Pichler", "Steiner", "Moser"},
	},
	"de_CH": {
		given:  []string{"Lea", "Noah", "Mia", "Liam", "Emma", "Luca", "Lena", "Elias"},
		family: []string{"Müller", "Meier", "Schmid", "Keller", "Weber", "Huber", "Schneider", "Frei"},
	},
	"de_DE": {
		given:  []string{"Hans", "Greta", "Klaus", "Ingrid", "Jürgen", "Sabine", "Wolfgang", "Ursula"},
		family: []string{"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner", "Becker"},
	},
	"es_AR": {
		given:  []string{"Santiago", "Valentina", "Mateo", "Camila", "Benjamín", "Sofía", "Joaquín", "Martina"},
		family: []string{"González", "Rodríguez", "Fernández", "López", "Martínez", "Gómez", "Díaz", "Pérez"},
	},
	"es_ES": {
		given:  []string{"Carmen", "José", "María", "Antonio", "Isabel", "Manuel", "Pilar", "Francisco"},
		family: []string{"García", "Martínez", "López", "Sánchez", "Pérez", "Gómez", "Fernández", "Ruiz"},
	},
	"es_MX": {
		given:  []string{"Guadalupe", "Juan", "Alejandra", "Carlos", "Fernanda", "Luis", "Daniela", "Miguel"},
		family: []string{"Hernández", "García", "Martínez", "López", "González", "Rodríguez", "Ramírez", "Cruz"},
	},
	"fi_FI": {
		given:  []string{"Aino", "Juhani", "Helmi", "Mikael", "Eevi", "Onni", "Sofia", "Väinö"},
		family: []string{"Korhonen", "Virtanen", "Mäkinen", "Nieminen", "Mäkelä", "Hämäläinen", "Laine", "Heikkinen"},
	},
	"fr_BE": {
		given:  []string{"Marie", "Jean", "Sophie", "Pierre", "Camille", "Nicolas", "Julie", "Thomas"},
		family: []string{"Peeters", "Janssens", "Maes", "Jacobs", "Dubois", "Lambert", "Martin", "Willems"},
	},
	"fr_FR": {
		given:  []string{"Jean", "Marie", "Pierre", "Sophie", "Luc", "Camille", "Antoine", "Élodie"},
		family: []string{"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit", "Durand"},
	},
	"hr_HR": {
		given:  []string{"Ivan", "Ana", "Marko", "Marija", "Luka", "Petra", "Josip", "Ivana"},
		family: []string{"Horvat", "Kovačević", "Babić", "Marić", "Jurić", "Novak", "Kovačić", "Knežević"},
	},
	"hu_HU": {
		given:  []string{"László", "Mária", "István", "Erzsébet", "József", "Katalin", "Zoltán", "Éva"},
		family: []string{"Nagy", "Kovács", "Tóth", "Szabó", "Horváth", "Varga", "Kiss", "Molnár"},
	},
	"id_ID": {
		given:  []string{"Budi", "Siti", "Agus", "Dewi", "Andi", "Sri", "Rizky", "Putri"},
		family: []string{"Santoso", "Wijaya", "Saputra", "Kusuma", "Hidayat", "Pratama", "Susanto", "Utami"},
	},
	"it_IT": {
		given:  []string{"Giuseppe", "Maria", "Antonio", "Anna", "Giovanni", "Francesca", "Marco", "Elena"},
		family: []string{"Rossi", "Russo", "Ferrari", "Esposito", "Bianchi", "Romano", "Colombo", "Ricci"},
	},
	"lt_LT": {
		given:  []string{"Jonas", "Ona", "Petras", "Elena", "Antanas", "Marija", "Juozas", "Rūta"},
		family: []string{"Kazlauskas", "Jankauskas", "Petrauskas", "Stankevičius", "Vasiliauskas", "Žukauskas", "Butkus", "Paulauskas"},
	},
	"lv_LV": {
		given:  []string{"Jānis", "Anna", "Andris", "Kristīne", "Juris", "Inese", "Māris", "Liene"},
		family: []string{"Bērziņš", "Kalniņš", "Ozoliņš", "Jansons", "Ozols", "Liepiņš", "Krūmiņš", "Balodis"},
	},
	"nl_BE": {
		given:  []string{"Jan", "Els", "Wim", "An", "Koen", "Griet", "Bart", "Lies"},
		family: []string{"Peeters", "Janssens", "Maes", "Jacobs", "Mertens", "Willems", "Claes", "Goossens"},
	},
	"nl_NL": {
		given:  []string{"Daan", "Sanne", "Sem", "Lotte", "Bram", "Fleur", "Thijs", "Anouk"},
		family: []string{"de Jong", "Jansen", "de Vries", "van den Berg", "Bakker", "Visser", "Smit", "Meijer"},
	},
	"no_NO": {
		given:  []string{"Ole", "Kari", "Per", "Anne", "Lars", "Ingrid", "Knut", "Astrid"},
		family: []string{"Hansen", "Johansen", "Olsen", "Larsen", "Andersen", "Pedersen", "Nilsen", "Kristiansen"},
	},
	"pl_PL": {
		given:  []string{"Piotr", "Anna", "Krzysztof", "Maria", "Andrzej", "Katarzyna", "Jan", "Agnieszka"},
		family: []string{"Nowak", "Kowalski", "Wiśniewska", "Wójcik", "Kowalczyk", "Kamińska", "Lewandowski", "Zielińska"},
	},
	"pt_BR": {
		given:  []string{"João", "Maria", "Pedro", "Ana", "Lucas", "Juliana", "Gabriel", "Camila"},
		family: []string{"Silva", "Santos", "Oliveira", "Souza", "Lima", "Pereira", "Ferreira", "Costa"},
	},
	"pt_PT": {
		given:  []string{"António", "Maria", "Manuel", "Ana", "José", "Isabel", "Francisco", "Teresa"},
		family: []string{"Silva", "Santos", "Ferreira", "Pereira", "Oliveira", "Costa", "Rodrigues", "Martins"},
	},
	"ro_RO": {
		given:  []string{"Ion", "Maria", "Gheorghe", "Elena", "Vasile", "Ioana", "Andrei", "Ana"},
		family: []string{"Popescu", "Ionescu", "Popa", "Stan", "Dumitru", "Gheorghe", "Constantin", "Marin"},
	},
	"sl_SI": {
		given:  []string{"Luka", "Ana", "Jan", "Eva", "Nik", "Sara", "Žan", "Nina"},
		family: []string{"Novak", "Horvat", "Kovačič", "Krajnc", "Zupančič", "Kovač", "Potočnik", "Mlakar"},
	},
	"sv_SE": {
		given:  []string{"Erik", "Anna", "Lars", "Karin", "Anders", "Eva", "Johan", "Maria"},
		family: []string{"Andersson", "Johansson", "Karlsson", "Nilsson", "Eriksson", "Larsson", "Olsson", "Persson"},
	},
	"tr_TR": {
		given:  []string{"Mehmet", "Ayşe", "Mustafa", "Fatma", "Ahmet", "Emine", "Ali", "Zeynep"},
		family: []string{"Yılmaz", "Kaya", "Demir", "Şahin", "Çelik", "Yıldız", "Aydın", "Öztürk"},
	},
}
