package feature

// Vector holds the attributes of one house. Every field is optional on the
// wire; Values rejects a vector with any field missing.
type Vector struct {
	Crim    *float64 `json:"crim"`
	Zn      *float64 `json:"zn"`
	Indus   *float64 `json:"indus"`
	Chas    *float64 `json:"chas"`
	Nox     *float64 `json:"nox"`
	Rm      *float64 `json:"rm"`
	Age     *float64 `json:"age"`
	Dis     *float64 `json:"dis"`
	Rad     *float64 `json:"rad"`
	Tax     *float64 `json:"tax"`
	Ptratio *float64 `json:"ptratio"`
	B       *float64 `json:"b"`
	Lstat   *float64 `json:"lstat"`
}

// Names lists the features in scoring order. Stored weights, means and
// standard deviations are indexed the same way, so the river flag (chas)
// comes last.
var Names = []string{
	"crim", "zn", "indus", "nox", "rm", "age", "dis",
	"rad", "tax", "ptratio", "b", "lstat", "chas",
}

// Count is the number of features a model is trained on.
const Count = 13
