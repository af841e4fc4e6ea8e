package legal

// Statute citations used across the analyzer and guidance output.
const (
	BGB535  = "§ 535 BGB"
	BGB536  = "§ 536 BGB"
	BGB536a = "§ 536a BGB"
	BGB538  = "§ 538 BGB"
	BGB551  = "§ 551 BGB"
	BGB555b = "§ 555b BGB"
	BGB559  = "§ 559 BGB"
	BGB556  = "§ 556 BGB"
	BGB556d = "§ 556d BGB"
	BGB558  = "§ 558 BGB"
	BGB559b = "§ 559b BGB"
	BGB568  = "§ 568 BGB"
	BGB573  = "§ 573 BGB"
	BGB573c = "§ 573c BGB"
	BGB574  = "§ 574 BGB"
	BGB543  = "§ 543 BGB"
	BGB906  = "§ 906 BGB"
	BGB1004 = "§ 1004 BGB"
	BetrKV  = "§ 2 BetrKV"
	ZPO721  = "§ 721 ZPO"
	ZPO940a = "§ 940a ZPO"
	AGG19   = "§ 19 AGG"
	AGG21   = "§ 21 AGG"
)

var referencesByCategory = map[Category][]string{
	CategoryRentReduction:    {BGB536, BGB536a},
	CategoryRentIncrease:     {BGB558, BGB559},
	CategoryRentCap:          {BGB556d},
	CategoryDeposit:          {BGB551},
	CategoryUtilityCosts:     {BGB556, BetrKV},
	CategoryRepairs:          {BGB535, BGB538},
	CategoryModernization:    {BGB555b, BGB559, BGB559b},
	CategoryTermination:      {BGB568, BGB573, BGB573c},
	CategoryEviction:         {BGB543, BGB573, BGB574, ZPO721, ZPO940a},
	CategoryLandlordConflict: {BGB535},
	CategoryNeighborDispute:  {BGB906, BGB1004},
	CategoryDiscrimination:   {AGG19, AGG21},
	CategoryGeneral:          {BGB535},
}

// ReferencesFor returns the statutes relevant to a category. Unknown
// categories fall back to the general tenancy provision.
func ReferencesFor(c Category) []string {
	refs, ok := referencesByCategory[c]
	if !ok {
		refs = referencesByCategory[CategoryGeneral]
	}
	out := make([]string, len(refs))
	copy(out, refs)
	return out
}
