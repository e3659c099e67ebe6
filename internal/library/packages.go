package library

import (
	"fmt"
	"sort"
)

type Package struct {
	Name   string `json:"name"`
	Months int    `json:"months"`
	Price  int64  `json:"price"`
}

// Harga paket adalah kebijakan server. Nominal kiriman client diabaikan;
// paket yang tidak ada di tabel ditolak.
var membershipPackages = map[string]Package{
	"1 Bulan": {Name: "1 Bulan", Months: 1, Price: 50000},
	"3 Bulan": {Name: "3 Bulan", Months: 3, Price: 130000},
	"6 Bulan": {Name: "6 Bulan", Months: 6, Price: 250000},
}

func ResolvePackage(name string) (Package, error) {
	p, ok := membershipPackages[name]
	if !ok {
		return Package{}, fmt.Errorf("%w: %q", ErrInvalidPackage, name)
	}
	return p, nil
}

// Packages mengembalikan tabel harga, terurut by durasi.
func Packages() []Package {
	out := make([]Package, 0, len(membershipPackages))
	for _, p := range membershipPackages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Months < out[j].Months })
	return out
}

func PackageNames() []string {
	names := make([]string, 0, len(membershipPackages))
	for n := range membershipPackages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
