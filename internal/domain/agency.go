package domain

import (
	"fmt"
	"strings"
)

// AgencyCode код органа, например SEFIN
type AgencyCode string

// Agency орган, принимающий заявителей
type Agency struct {
	Code AgencyCode
	Name string
}

// DefaultAgencies органы мероприятия Atende Recentro
var DefaultAgencies = []Agency{
	{Code: "SEFIN", Name: "Secretaria de Finanças"},
	{Code: "IPHAN", Name: "Instituto do Patrimônio Histórico e Artístico Nacional"},
	{Code: "SEDURB", Name: "Secretaria de Desenvolvimento Urbano"},
	{Code: "SMAS", Name: "Secretaria Municipal de Assistência Social"},
}

// AgencyCatalog фиксированный список органов с поиском по коду и названию
type AgencyCatalog struct {
	agencies []Agency
	byCode   map[AgencyCode]Agency
	byName   map[string]AgencyCode
}

func NewAgencyCatalog(agencies []Agency) (*AgencyCatalog, error) {
	if len(agencies) == 0 {
		return nil, fmt.Errorf("%w: agency list is empty", ErrInvalidCatalog)
	}

	catalog := &AgencyCatalog{
		agencies: make([]Agency, 0, len(agencies)),
		byCode:   make(map[AgencyCode]Agency, len(agencies)),
		byName:   make(map[string]AgencyCode, len(agencies)),
	}

	for _, a := range agencies {
		code := AgencyCode(strings.ToUpper(strings.TrimSpace(string(a.Code))))
		if code == "" {
			return nil, fmt.Errorf("%w: agency with empty code", ErrInvalidCatalog)
		}
		if _, dup := catalog.byCode[code]; dup {
			return nil, fmt.Errorf("%w: duplicate agency %s", ErrInvalidCatalog, code)
		}

		agency := Agency{Code: code, Name: strings.TrimSpace(a.Name)}
		if agency.Name == "" {
			agency.Name = string(code)
		}

		catalog.agencies = append(catalog.agencies, agency)
		catalog.byCode[code] = agency
		catalog.byName[strings.ToLower(agency.Name)] = code
	}

	return catalog, nil
}

// Resolve принимает код (без учета регистра) или полное название органа
func (c *AgencyCatalog) Resolve(s string) (AgencyCode, error) {
	s = strings.TrimSpace(s)

	code := AgencyCode(strings.ToUpper(s))
	if _, ok := c.byCode[code]; ok {
		return code, nil
	}
	if code, ok := c.byName[strings.ToLower(s)]; ok {
		return code, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownAgency, s)
}

func (c *AgencyCatalog) Get(code AgencyCode) (Agency, bool) {
	a, ok := c.byCode[code]
	return a, ok
}

// Name отображаемое название органа, для неизвестного кода сам код
func (c *AgencyCatalog) Name(code AgencyCode) string {
	if a, ok := c.byCode[code]; ok {
		return a.Name
	}
	return string(code)
}

// All органы в порядке конфигурации
func (c *AgencyCatalog) All() []Agency {
	agencies := make([]Agency, len(c.agencies))
	copy(agencies, c.agencies)
	return agencies
}
