package entities

// DefaultRelationTypes is the closed relation catalog loaded at startup.
// Labels are the French display labels used when building rationales.
var DefaultRelationTypes = []RelationshipTypeDef{
	// Direct line.
	{Code: "parent", Kind: "parent", Gender: GenderUnknown, Category: CategoryDirect, GenerationDelta: -1, InverseCode: "child", Label: "parent"},
	{Code: "father", Kind: "parent", Gender: GenderMale, Category: CategoryDirect, GenerationDelta: -1, InverseCode: "child", Label: "père"},
	{Code: "mother", Kind: "parent", Gender: GenderFemale, Category: CategoryDirect, GenerationDelta: -1, InverseCode: "child", Label: "mère"},
	{Code: "child", Kind: "child", Gender: GenderUnknown, Category: CategoryDirect, GenerationDelta: 1, InverseCode: "parent", Label: "enfant"},
	{Code: "son", Kind: "child", Gender: GenderMale, Category: CategoryDirect, GenerationDelta: 1, InverseCode: "parent", Label: "fils"},
	{Code: "daughter", Kind: "child", Gender: GenderFemale, Category: CategoryDirect, GenerationDelta: 1, InverseCode: "parent", Label: "fille"},
	{Code: "sibling", Kind: "sibling", Gender: GenderUnknown, Category: CategoryDirect, GenerationDelta: 0, InverseCode: "sibling", Label: "frère ou sœur"},
	{Code: "brother", Kind: "sibling", Gender: GenderMale, Category: CategoryDirect, GenerationDelta: 0, InverseCode: "sibling", Label: "frère"},
	{Code: "sister", Kind: "sibling", Gender: GenderFemale, Category: CategoryDirect, GenerationDelta: 0, InverseCode: "sibling", Label: "sœur"},
	{Code: "grandparent", Kind: "grandparent", Gender: GenderUnknown, Category: CategoryDirect, GenerationDelta: -2, InverseCode: "grandchild", Label: "grand-parent"},
	{Code: "grandfather", Kind: "grandparent", Gender: GenderMale, Category: CategoryDirect, GenerationDelta: -2, InverseCode: "grandchild", Label: "grand-père"},
	{Code: "grandmother", Kind: "grandparent", Gender: GenderFemale, Category: CategoryDirect, GenerationDelta: -2, InverseCode: "grandchild", Label: "grand-mère"},
	{Code: "grandchild", Kind: "grandchild", Gender: GenderUnknown, Category: CategoryDirect, GenerationDelta: 2, InverseCode: "grandparent", Label: "petit-enfant"},
	{Code: "grandson", Kind: "grandchild", Gender: GenderMale, Category: CategoryDirect, GenerationDelta: 2, InverseCode: "grandparent", Label: "petit-fils"},
	{Code: "granddaughter", Kind: "grandchild", Gender: GenderFemale, Category: CategoryDirect, GenerationDelta: 2, InverseCode: "grandparent", Label: "petite-fille"},
	{Code: "great_grandparent", Kind: "great_grandparent", Gender: GenderUnknown, Category: CategoryDirect, GenerationDelta: -3, InverseCode: "great_grandchild", Label: "arrière-grand-parent"},
	{Code: "great_grandfather", Kind: "great_grandparent", Gender: GenderMale, Category: CategoryDirect, GenerationDelta: -3, InverseCode: "great_grandchild", Label: "arrière-grand-père"},
	{Code: "great_grandmother", Kind: "great_grandparent", Gender: GenderFemale, Category: CategoryDirect, GenerationDelta: -3, InverseCode: "great_grandchild", Label: "arrière-grand-mère"},
	{Code: "great_grandchild", Kind: "great_grandchild", Gender: GenderUnknown, Category: CategoryDirect, GenerationDelta: 3, InverseCode: "great_grandparent", Label: "arrière-petit-enfant"},
	{Code: "great_grandson", Kind: "great_grandchild", Gender: GenderMale, Category: CategoryDirect, GenerationDelta: 3, InverseCode: "great_grandparent", Label: "arrière-petit-fils"},
	{Code: "great_granddaughter", Kind: "great_grandchild", Gender: GenderFemale, Category: CategoryDirect, GenerationDelta: 3, InverseCode: "great_grandparent", Label: "arrière-petite-fille"},

	// Marriage.
	{Code: "spouse", Kind: "spouse", Gender: GenderUnknown, Category: CategoryMarriage, GenerationDelta: 0, InverseCode: "spouse", Label: "conjoint"},
	{Code: "husband", Kind: "spouse", Gender: GenderMale, Category: CategoryMarriage, GenerationDelta: 0, InverseCode: "spouse", Label: "mari"},
	{Code: "wife", Kind: "spouse", Gender: GenderFemale, Category: CategoryMarriage, GenerationDelta: 0, InverseCode: "spouse", Label: "épouse"},
	{Code: "parent_in_law", Kind: "parent_in_law", Gender: GenderUnknown, Category: CategoryMarriage, GenerationDelta: -1, InverseCode: "child_in_law", Label: "beau-parent"},
	{Code: "father_in_law", Kind: "parent_in_law", Gender: GenderMale, Category: CategoryMarriage, GenerationDelta: -1, InverseCode: "child_in_law", Label: "beau-père"},
	{Code: "mother_in_law", Kind: "parent_in_law", Gender: GenderFemale, Category: CategoryMarriage, GenerationDelta: -1, InverseCode: "child_in_law", Label: "belle-mère"},
	{Code: "child_in_law", Kind: "child_in_law", Gender: GenderUnknown, Category: CategoryMarriage, GenerationDelta: 1, InverseCode: "parent_in_law", Label: "enfant par alliance"},
	{Code: "son_in_law", Kind: "child_in_law", Gender: GenderMale, Category: CategoryMarriage, GenerationDelta: 1, InverseCode: "parent_in_law", Label: "gendre"},
	{Code: "daughter_in_law", Kind: "child_in_law", Gender: GenderFemale, Category: CategoryMarriage, GenerationDelta: 1, InverseCode: "parent_in_law", Label: "belle-fille"},
	{Code: "sibling_in_law", Kind: "sibling_in_law", Gender: GenderUnknown, Category: CategoryMarriage, GenerationDelta: 0, InverseCode: "sibling_in_law", Label: "beau-frère ou belle-sœur"},
	{Code: "brother_in_law", Kind: "sibling_in_law", Gender: GenderMale, Category: CategoryMarriage, GenerationDelta: 0, InverseCode: "sibling_in_law", Label: "beau-frère"},
	{Code: "sister_in_law", Kind: "sibling_in_law", Gender: GenderFemale, Category: CategoryMarriage, GenerationDelta: 0, InverseCode: "sibling_in_law", Label: "belle-sœur"},
	{Code: "stepparent", Kind: "stepparent", Gender: GenderUnknown, Category: CategoryMarriage, GenerationDelta: -1, InverseCode: "stepchild", Label: "beau-parent"},
	{Code: "stepfather", Kind: "stepparent", Gender: GenderMale, Category: CategoryMarriage, GenerationDelta: -1, InverseCode: "stepchild", Label: "beau-père"},
	{Code: "stepmother", Kind: "stepparent", Gender: GenderFemale, Category: CategoryMarriage, GenerationDelta: -1, InverseCode: "stepchild", Label: "belle-mère"},
	{Code: "stepchild", Kind: "stepchild", Gender: GenderUnknown, Category: CategoryMarriage, GenerationDelta: 1, InverseCode: "stepparent", Label: "bel-enfant"},
	{Code: "stepson", Kind: "stepchild", Gender: GenderMale, Category: CategoryMarriage, GenerationDelta: 1, InverseCode: "stepparent", Label: "beau-fils"},
	{Code: "stepdaughter", Kind: "stepchild", Gender: GenderFemale, Category: CategoryMarriage, GenerationDelta: 1, InverseCode: "stepparent", Label: "belle-fille"},

	// Extended family.
	{Code: "parent_sibling", Kind: "parent_sibling", Gender: GenderUnknown, Category: CategoryExtended, GenerationDelta: -1, InverseCode: "sibling_child", Label: "oncle ou tante"},
	{Code: "uncle", Kind: "parent_sibling", Gender: GenderMale, Category: CategoryExtended, GenerationDelta: -1, InverseCode: "sibling_child", Label: "oncle"},
	{Code: "aunt", Kind: "parent_sibling", Gender: GenderFemale, Category: CategoryExtended, GenerationDelta: -1, InverseCode: "sibling_child", Label: "tante"},
	{Code: "sibling_child", Kind: "sibling_child", Gender: GenderUnknown, Category: CategoryExtended, GenerationDelta: 1, InverseCode: "parent_sibling", Label: "neveu ou nièce"},
	{Code: "nephew", Kind: "sibling_child", Gender: GenderMale, Category: CategoryExtended, GenerationDelta: 1, InverseCode: "parent_sibling", Label: "neveu"},
	{Code: "niece", Kind: "sibling_child", Gender: GenderFemale, Category: CategoryExtended, GenerationDelta: 1, InverseCode: "parent_sibling", Label: "nièce"},
	{Code: "cousin", Kind: "cousin", Gender: GenderUnknown, Category: CategoryExtended, GenerationDelta: 0, InverseCode: "cousin", Label: "cousin"},

	// Adoption.
	{Code: "adoptive_parent", Kind: "adoptive_parent", Gender: GenderUnknown, Category: CategoryAdoption, GenerationDelta: -1, InverseCode: "adopted_child", Label: "parent adoptif"},
	{Code: "adoptive_father", Kind: "adoptive_parent", Gender: GenderMale, Category: CategoryAdoption, GenerationDelta: -1, InverseCode: "adopted_child", Label: "père adoptif"},
	{Code: "adoptive_mother", Kind: "adoptive_parent", Gender: GenderFemale, Category: CategoryAdoption, GenerationDelta: -1, InverseCode: "adopted_child", Label: "mère adoptive"},
	{Code: "adopted_child", Kind: "adopted_child", Gender: GenderUnknown, Category: CategoryAdoption, GenerationDelta: 1, InverseCode: "adoptive_parent", Label: "enfant adopté"},
	{Code: "adopted_son", Kind: "adopted_child", Gender: GenderMale, Category: CategoryAdoption, GenerationDelta: 1, InverseCode: "adoptive_parent", Label: "fils adoptif"},
	{Code: "adopted_daughter", Kind: "adopted_child", Gender: GenderFemale, Category: CategoryAdoption, GenerationDelta: 1, InverseCode: "adoptive_parent", Label: "fille adoptive"},
}

// DefaultRelationCodes returns the codes of the default catalog in declaration order.
func DefaultRelationCodes() []string {
	codes := make([]string, len(DefaultRelationTypes))
	for i, d := range DefaultRelationTypes {
		codes[i] = d.Code
	}
	return codes
}
