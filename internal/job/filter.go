package job

import (
	"sort"
)

// FilterByCompany returns the jobs whose company equals company. The input
// slice is never modified; AllCompanies returns it unchanged.
func FilterByCompany(jobs []Job, company string) []Job {
	if company == AllCompanies {
		return jobs
	}
	res := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Company == company {
			res = append(res, j)
		}
	}
	return res
}

// Companies lists the distinct company names in first-seen order.
func Companies(jobs []Job) []string {
	seen := make(map[string]struct{}, len(jobs))
	res := make([]string, 0)
	for _, j := range jobs {
		if _, ok := seen[j.Company]; ok {
			continue
		}
		seen[j.Company] = struct{}{}
		res = append(res, j.Company)
	}
	return res
}

func CountNotified(jobs []Job) int {
	n := 0
	for _, j := range jobs {
		if j.Notified {
			n++
		}
	}
	return n
}

// CountByCompany groups jobs by company, highest count first. Equal counts
// are ordered by company name so the output is stable.
func CountByCompany(jobs []Job) []CompanyCount {
	counts := make(map[string]int)
	for _, j := range jobs {
		counts[j.Company]++
	}
	res := make([]CompanyCount, 0, len(counts))
	for c, n := range counts {
		res = append(res, CompanyCount{Company: c, Count: n})
	}
	sort.Slice(res, func(i, k int) bool {
		if res[i].Count != res[k].Count {
			return res[i].Count > res[k].Count
		}
		return res[i].Company < res[k].Company
	})
	return res
}
