package form

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultProvince is preselected on a fresh form.
const DefaultProvince = "İstanbul"

// Provinces lists the 81 provinces in the order the form offers them.
var Provinces = []string{
	"Adana", "Adıyaman", "Afyonkarahisar", "Ağrı", "Amasya", "Ankara", "Antalya", "Artvin", "Aydın", "Balıkesir",
	"Bilecik", "Bingöl", "Bitlis", "Bolu", "Burdur", "Bursa", "Çanakkale", "Çankırı", "Çorum", "Denizli",
	"Diyarbakır", "Edirne", "Elazığ", "Erzincan", "Erzurum", "Eskişehir", "Gaziantep", "Giresun", "Gümüşhane", "Hakkari",
	"Hatay", "Isparta", "Mersin", "İstanbul", "İzmir", "Kars", "Kastamonu", "Kayseri", "Kırklareli", "Kırşehir",
	"Kocaeli", "Konya", "Kütahya", "Malatya", "Manisa", "Kahramanmaraş", "Mardin", "Muğla", "Muş", "Nevşehir",
	"Niğde", "Ordu", "Rize", "Sakarya", "Samsun", "Siirt", "Sinop", "Sivas", "Tekirdağ", "Tokat",
	"Trabzon", "Tunceli", "Şanlıurfa", "Uşak", "Van", "Yozgat", "Zonguldak", "Aksaray", "Bayburt", "Karaman",
	"Kırıkkale", "Batman", "Şırnak", "Bartın", "Ardahan", "Iğdır", "Yalova", "Karabük", "Kilis", "Osmaniye",
	"Düzce",
}

var provinceIndex = sync.OnceValue(func() map[string]string {
	idx := make(map[string]string, len(Provinces))
	for _, p := range Provinces {
		idx[turkishLower(p)] = p
	}
	return idx
})

// LookupProvince returns the canonical spelling of name, matching
// case-insensitively under Turkish casing rules (İ/i and I/ı).
func LookupProvince(name string) (string, bool) {
	p, ok := provinceIndex()[turkishLower(name)]
	return p, ok
}

// turkishLower builds a fresh Caser per call; Casers are not safe for
// concurrent use.
func turkishLower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}
