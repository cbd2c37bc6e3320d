package check

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/darkshare/darkshare/internal/model"
)

// Wallet heuristic weights.
const (
	walletBaseScore    = 15
	walletMixerWeight  = 60
	walletVanityWeight = 20

	// evmAddressLength is the canonical 0x-prefixed 20-byte address length.
	evmAddressLength = 42
)

// mixerAddress is the sanctioned Tornado Cash router address. A target
// containing this substring is treated as interacting with the mixer.
const mixerAddress = "0x722122df12d4e14e13ac3b6895a86e84145b6967"

// walletSources lists the data providers named on wallet reports.
// None are consulted; full on-chain analysis would need a chain-explorer
// API (see the note written into the result details).
var walletSources = []string{"Etherscan", "Chainalysis", "CipherTrace", "OFAC SDN", "EU Sanctions List"}

// checkWallet scores an EVM-style wallet address. Pure function of the
// input plus cosmetic random draws; makes no network calls.
func (s *Service) checkWallet(_ context.Context, value string, now time.Time) *model.CheckResult {
	score := walletBaseScore
	findings := make([]string, 0, 3)
	lower := strings.ToLower(value)

	formatValid := strings.HasPrefix(value, "0x") && len(value) == evmAddressLength
	if formatValid {
		findings = append(findings, "Address has a valid 20-byte EVM format")
	}

	// Checksum heuristic: mixed-case hex indicates an EIP-55 encoded
	// address. Informational only, no score impact.
	checksumValid := strings.ContainsAny(value, "ABCDEF")

	if strings.HasSuffix(lower, "0000") || strings.Contains(lower[2:], "dead") {
		score += walletVanityWeight
		findings = append(findings, "Vanity-style address pattern (grinded suffix) detected")
	}

	mixerHit := strings.Contains(lower, mixerAddress)
	if mixerHit {
		score += walletMixerWeight
		// A sanctioned mixer counterparty is always a critical verdict,
		// independent of what the additive weights reach.
		if score < 80 {
			score = 80
		}
		findings = append(findings, "CRITICAL: Interaction with Tornado Cash mixer (OFAC sanctioned)")
	}

	if len(findings) == 0 {
		findings = append(findings, "Clean transaction history")
	}

	details := map[string]any{
		"chain":            "Ethereum",
		"formatValid":      formatValid,
		"checksumValid":    checksumValid,
		"mixerInteraction": mixerHit,
		"balance":          fmt.Sprintf("%.4f ETH", s.float64n()*10),
		"txCount":          s.intn(500) + 10,
		"note":             "Full on-chain analysis requires a chain-explorer API",
	}
	if formatValid {
		details["eip55Valid"] = eip55Valid(value)
	}

	return s.newResult(model.CheckTypeWallet, value, shorten(value, 10), score,
		details, findings, walletSources, now)
}

// eip55Valid reports whether a canonical-length address carries a correct
// EIP-55 mixed-case checksum. All-lowercase and all-uppercase addresses
// encode no checksum and are accepted.
func eip55Valid(address string) bool {
	hexPart := address[2:]
	if hexPart == strings.ToLower(hexPart) || hexPart == strings.ToUpper(hexPart) {
		return true
	}

	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(strings.ToLower(hexPart)))
	digest := hash.Sum(nil)

	for i, c := range hexPart {
		if c >= '0' && c <= '9' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		upper := nibble&0x08 != 0
		if upper != (c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
