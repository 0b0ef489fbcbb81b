package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Catalogs struct {
	Blocks  BlockCatalog
	Recipes RecipeCatalog
}

type BlockCatalog struct {
	Defs       map[string]BlockDef
	DefsDigest string
}

type BlockDef struct {
	ID    string `json:"id"`
	Solid bool   `json:"solid"`
	// Colored blocks carry a dye color in their state (WOOL, STAINED_CLAY, ...).
	Colored bool `json:"colored,omitempty"`
	// Slots > 0 marks a container-bearing block.
	Slots int `json:"slots,omitempty"`
}

func (d BlockDef) IsContainer() bool { return d.Slots > 0 }

type RecipeCatalog struct {
	ByID   map[string]RecipeDef
	Digest string
}

type RecipeDef struct {
	RecipeID string      `json:"recipe_id"`
	Inputs   []ItemCount `json:"inputs"`
	Output   ItemCount   `json:"output"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes, &c.Blocks); err != nil {
		return nil, err
	}
	return &c, nil
}

// Block returns the definition for id; unknown blocks are treated as plain solids.
func (c *Catalogs) Block(id string) BlockDef {
	if c != nil {
		if d, ok := c.Blocks.Defs[id]; ok {
			return d
		}
	}
	return BlockDef{ID: id, Solid: true}
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		if d.Slots < 0 {
			return fmt.Errorf("blocks.json: %s: negative slots", d.ID)
		}
		out.Defs[d.ID] = d
	}
	if _, ok := out.Defs["AIR"]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	return nil
}

func loadRecipes(path string, out *RecipeCatalog, blocks *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.ByID = make(map[string]RecipeDef, len(defs))
	for _, d := range defs {
		if d.RecipeID == "" {
			return fmt.Errorf("recipes.json: empty recipe_id")
		}
		if _, dup := out.ByID[d.RecipeID]; dup {
			return fmt.Errorf("recipes.json: duplicate recipe_id %s", d.RecipeID)
		}
		if d.Output.Item == "" || d.Output.Count <= 0 {
			return fmt.Errorf("recipes.json: %s: bad output", d.RecipeID)
		}
		if def, ok := blocks.Defs[d.Output.Item]; ok && def.Colored && d.Output.Color == "" {
			return fmt.Errorf("recipes.json: %s: colored output without color", d.RecipeID)
		}
		out.ByID[d.RecipeID] = d
	}
	return nil
}
