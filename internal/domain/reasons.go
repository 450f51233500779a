package domain

// Reason is either an ExclusionReason or a WarningReason.
type Reason interface {
	String() string
	isReason()
}

// ExclusionReason is why a cookie was blocked.
type ExclusionReason string

const (
	ExcludeSameSiteUnspecifiedTreatedAsLax ExclusionReason = "ExcludeSameSiteUnspecifiedTreatedAsLax"
	ExcludeSameSiteNoneInsecure            ExclusionReason = "ExcludeSameSiteNoneInsecure"
	ExcludeSameSiteLax                     ExclusionReason = "ExcludeSameSiteLax"
	ExcludeSameSiteStrict                  ExclusionReason = "ExcludeSameSiteStrict"
	ExcludeInvalidSameParty                ExclusionReason = "ExcludeInvalidSameParty"
	ExcludeSamePartyCrossPartyContext      ExclusionReason = "ExcludeSamePartyCrossPartyContext"
)

func (r ExclusionReason) String() string { return string(r) }
func (ExclusionReason) isReason()        {}

// WarningReason flags behavior that will break in the future but does not block yet.
type WarningReason string

const (
	WarnSameSiteUnspecifiedCrossSiteContext WarningReason = "WarnSameSiteUnspecifiedCrossSiteContext"
	WarnSameSiteNoneInsecure                WarningReason = "WarnSameSiteNoneInsecure"
	WarnSameSiteUnspecifiedLaxAllowUnsafe   WarningReason = "WarnSameSiteUnspecifiedLaxAllowUnsafe"
	WarnSameSiteStrictLaxDowngradeStrict    WarningReason = "WarnSameSiteStrictLaxDowngradeStrict"
	WarnSameSiteStrictCrossDowngradeStrict  WarningReason = "WarnSameSiteStrictCrossDowngradeStrict"
	WarnSameSiteStrictCrossDowngradeLax     WarningReason = "WarnSameSiteStrictCrossDowngradeLax"
	WarnSameSiteLaxCrossDowngradeStrict     WarningReason = "WarnSameSiteLaxCrossDowngradeStrict"
	WarnSameSiteLaxCrossDowngradeLax        WarningReason = "WarnSameSiteLaxCrossDowngradeLax"
)

func (r WarningReason) String() string { return string(r) }
func (WarningReason) isReason()        {}

// IsCrossDowngrade reports whether r is one of the four schemeful cross-site downgrade warnings.
func (r WarningReason) IsCrossDowngrade() bool {
	switch r {
	case WarnSameSiteStrictCrossDowngradeStrict,
		WarnSameSiteStrictCrossDowngradeLax,
		WarnSameSiteLaxCrossDowngradeStrict,
		WarnSameSiteLaxCrossDowngradeLax:
		return true
	}
	return false
}
