package runtime

// ManifestSkill describes one loaded skill for a consuming agent.
type ManifestSkill struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	QueryEndpoint string `json:"query_endpoint"`
}

// Manifest enumerates everything currently loaded plus the generic query
// grammar, intended for session initialization of an agent.
type Manifest struct {
	LoadedSkills []ManifestSkill `json:"loaded_skills"`
	QuerySyntax  string          `json:"query_syntax"`
}

// QuerySyntax is the generic query string grammar advertised in the
// manifest.
const QuerySyntax = "skill:<name>:<path>?<filters>"

// Manifest builds the discovery manifest for all loaded skills.
func (r *Runtime) Manifest() Manifest {
	manifest := Manifest{
		LoadedSkills: []ManifestSkill{},
		QuerySyntax:  QuerySyntax,
	}
	for _, name := range r.ListSkills() {
		meta := r.docs[name].Skill.Meta
		manifest.LoadedSkills = append(manifest.LoadedSkills, ManifestSkill{
			Name:          name,
			Version:       meta.Version,
			Type:          meta.Type,
			Description:   meta.Description,
			QueryEndpoint: "skill:" + name,
		})
	}
	return manifest
}
