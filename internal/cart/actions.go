package cart

import "github.com/Skotchmaster/green_homes/internal/models"

type ActionType string

const (
	ActionAdd            ActionType = "ADD_TO_CART"
	ActionRemove         ActionType = "REMOVE_FROM_CART"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionClear          ActionType = "CLEAR_CART"
	ActionLoad           ActionType = "LOAD_CART"
)

// Options selects the variant of a line. A zero Options is the plain plant.
type Options struct {
	Size      string `json:"size,omitempty"`
	PotOption bool   `json:"potOption,omitempty"`
}

// Action is one cart transition. Only the fields relevant to Type are set.
type Action struct {
	Type     ActionType    `json:"type"`
	Plant    *models.Plant `json:"plant,omitempty"`
	PlantID  string        `json:"plantId,omitempty"`
	Quantity int           `json:"quantity,omitempty"`
	Options  Options       `json:"options"`
	Cart     *models.Cart  `json:"cart,omitempty"`
}

func Add(p models.Plant, quantity int, opts Options) Action {
	return Action{Type: ActionAdd, Plant: &p, PlantID: p.ID, Quantity: quantity, Options: opts}
}

func Remove(plantID string) Action {
	return Action{Type: ActionRemove, PlantID: plantID}
}

func UpdateQuantity(plantID string, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, PlantID: plantID, Quantity: quantity}
}

func Clear() Action {
	return Action{Type: ActionClear}
}

func Load(c models.Cart) Action {
	return Action{Type: ActionLoad, Cart: &c}
}
