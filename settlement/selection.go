package settlement

import (
	"sort"
	"strconv"
	"strings"
)

// ParseSelection extracts horse numbers from a free-text selection list.
// Entries are comma separated and only the leading run of digits of each
// entry counts: "7 - Ex Machina" selects 7. Entries without a positive
// leading number are dropped; garbage in never crashes settlement.
func ParseSelection(text string) []int {
	var nums []int
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		i := 0
		for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
		if i == 0 {
			continue
		}
		n, err := strconv.Atoi(tok[:i])
		if err != nil || n <= 0 {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// joinNumbers renders a combination key the way reports store them:
// "-"-joined horse numbers. A single number renders bare.
func joinNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// sortedCopy returns the selection sorted ascending, leaving the entered
// order untouched.
func sortedCopy(nums []int) []int {
	out := make([]int, len(nums))
	copy(out, nums)
	sort.Ints(out)
	return out
}

// reversedCopy returns the selection in reverse order.
func reversedCopy(nums []int) []int {
	out := make([]int, len(nums))
	for i, n := range nums {
		out[len(nums)-1-i] = n
	}
	return out
}
