package suite

import (
	"github.com/macropower/compass/pkg/rule"
)

var pciChecks = []rule.Check{
	{
		Key:       "pci_no_cvv",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "CVV must never be stored",
		Scorer:    rule.Prohibit("cvv|cvc|cid"),
	},
	{
		// Without samples, a PAN column is assumed masked unless its name
		// says otherwise.
		Key:       "pci_pan_masking",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "PAN is masked/tokenized",
		Scorer:    rule.NameContains{Pattern: rule.MustCompile("pan|card_num"), Substr: "raw"},
	},
	{
		Key:       "pci_restricted_access",
		Weight:    3,
		Threshold: rule.Above(60),
		Details:   "Card data access controls inferred",
		Scorer:    rule.RequireOr("token|encrypted|key_id", 50),
	},
	{
		Key:       "pci_secure_transmission",
		Weight:    3,
		Threshold: rule.Always(),
		Details:   "Secure channel flags check (inferred)",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "pci_data_lifecycle",
		Weight:    4,
		Threshold: rule.Above(50),
		Details:   "lifecycle/deletion attributes found",
		Scorer:    rule.RequireOr("ttl|purge|expiry", 25),
	},
	{
		Key:       "pci_metadata_processing",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "No raw track data inspection",
		Scorer:    rule.Prohibit("track1|track2|magnetic"),
	},
}
