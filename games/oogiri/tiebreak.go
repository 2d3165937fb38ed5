/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

// ResolveTheme picks the winning theme index. Among the indices with the most
// votes, the one chosen by the earliest voter wins. No votes resolves to 0.
func ResolveTheme(votes []ThemeVote) int {
	counts := make(map[int]int, len(votes))
	most := 0
	for _, v := range votes {
		counts[v.ThemeIndex]++
		most = max(most, counts[v.ThemeIndex])
	}

	for _, v := range votes {
		if counts[v.ThemeIndex] == most {
			return v.ThemeIndex
		}
	}
	return 0
}

// TallyVotes counts votes received per target player.
func TallyVotes(votes []Vote) map[string]int {
	counts := make(map[string]int, len(votes))
	for _, v := range votes {
		counts[v.TargetID]++
	}
	return counts
}

// Winners returns every target tied for the most votes, in order of first
// appearance. Ties are kept, not broken.
func Winners(votes []Vote) []string {
	counts := TallyVotes(votes)
	most := 0
	for _, c := range counts {
		most = max(most, c)
	}

	winners := make([]string, 0, 1)
	seen := make(map[string]bool, len(counts))
	for _, v := range votes {
		if seen[v.TargetID] {
			continue
		}
		seen[v.TargetID] = true
		if counts[v.TargetID] == most {
			winners = append(winners, v.TargetID)
		}
	}
	return winners
}
