package access

// Visible groups the granted projects under the granted company that owns
// them. Companies keep their grant order; a company with no granted projects
// maps to an empty slice. Projects whose company is not granted are left out.
func Visible(companyIDs []string, projects []ProjectInfo) map[string][]ProjectInfo {
	out := make(map[string][]ProjectInfo, len(companyIDs))
	for _, id := range companyIDs {
		out[id] = []ProjectInfo{}
	}
	for _, p := range projects {
		if list, ok := out[p.CompanyID]; ok {
			out[p.CompanyID] = append(list, p)
		}
	}
	return out
}
