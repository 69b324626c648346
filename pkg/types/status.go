package types

// StatusCode is the stable integer code of a validation outcome.
//
// Negative codes flag defects in the dictionary schema itself, zero is
// idle/valid, positive codes up to 99 are value errors, and codes from
// 100 upward are infrastructure failures.
type StatusCode int

const (
	// StatusInvalidDataKindOption reports an unrecognized entry in a kind list
	StatusInvalidDataKindOption StatusCode = -4
	// StatusNotArrayDataKind reports a kind qualifier that is not a list
	StatusNotArrayDataKind StatusCode = -3
	// StatusRangeNotAnObject reports a range qualifier that is not an object
	StatusRangeNotAnObject StatusCode = -2
	// StatusExpectingDataDimension reports a data section without exactly one dimension
	StatusExpectingDataDimension StatusCode = -1

	// StatusOK is the idle status of a valid slot
	StatusOK StatusCode = 0

	StatusNotAnObject StatusCode = 1
	StatusNotAnArray  StatusCode = 2
	StatusEmptyObject StatusCode = 3
	StatusUnknownTerm StatusCode = 4
	// StatusNotADescriptor reports a term that carries no data section
	StatusNotADescriptor StatusCode = 5
	StatusNotAScalar     StatusCode = 6

	StatusMissingScalarType StatusCode = 7
	StatusNotABoolean       StatusCode = 8
	StatusNotAnInteger      StatusCode = 9
	StatusNotANumber        StatusCode = 10

	StatusValueOutOfRange    StatusCode = 11
	StatusValueLowRange      StatusCode = 12
	StatusValueHighRange     StatusCode = 13
	StatusValueNotATimestamp StatusCode = 14
	StatusUnsupported        StatusCode = 15
	StatusNotAString         StatusCode = 16
	StatusNoMatchRegexp      StatusCode = 17

	StatusEmptyKey StatusCode = 18
	// StatusNotAnEnum reports a term whose enumeration path is empty
	StatusNotAnEnum               StatusCode = 19
	StatusNotAStructureDefinition StatusCode = 20
	StatusNoRefDefaultNamespace   StatusCode = 21
	StatusUnknownDocument         StatusCode = 22
	StatusBadKeyValue             StatusCode = 23
	StatusBadHandleValue          StatusCode = 24
	StatusBadCollectionName       StatusCode = 25
	StatusUnknownCollection       StatusCode = 26
	// StatusValueNotTerm reports a value that does not resolve to a term
	StatusValueNotTerm        StatusCode = 27
	StatusNotCorrectEnumType  StatusCode = 28
	StatusDuplicateSetElement StatusCode = 29

	// StatusStoreError reports a fatal dictionary store failure
	StatusStoreError StatusCode = 100
	// StatusCancelled reports validation interrupted by the caller
	StatusCancelled StatusCode = 101
)

// DefaultLanguage is the language used when a translation is missing.
const DefaultLanguage = "en"

var statusMessages = map[string]map[StatusCode]string{
	"en": {
		StatusInvalidDataKindOption:  "invalid data kind option",
		StatusNotArrayDataKind:       "data kind is not a list",
		StatusRangeNotAnObject:       "range is not an object",
		StatusExpectingDataDimension: "expecting a data dimension",

		StatusOK: "idle",

		StatusNotAnObject: "value is not an object",
		StatusNotAnArray:  "value is not a list",
		StatusEmptyObject: "object is empty",
		StatusUnknownTerm: "unknown term",

		StatusNotADescriptor: "term is not a descriptor",
		StatusNotAScalar:     "value is not a scalar",

		StatusMissingScalarType: "descriptor is missing the scalar data type",
		StatusNotABoolean:       "value is not a boolean",
		StatusNotAnInteger:      "value is not an integer",
		StatusNotANumber:        "value is not a number",

		StatusValueOutOfRange:    "value out of range",
		StatusValueLowRange:      "value below minimum of range",
		StatusValueHighRange:     "value above maximum of range",
		StatusValueNotATimestamp: "value is not a timestamp",
		StatusUnsupported:        "unsupported data type",
		StatusNotAString:         "value is not a string",
		StatusNoMatchRegexp:      "value does not match regular expression",

		StatusEmptyKey:                "key is empty",
		StatusNotAnEnum:               "term is not an enumeration element",
		StatusNotAStructureDefinition: "term is not a structure definition",
		StatusNoRefDefaultNamespace:   "cannot reference the default namespace",
		StatusUnknownDocument:         "unknown document",
		StatusBadKeyValue:             "invalid key value",
		StatusBadHandleValue:          "invalid document handle",
		StatusBadCollectionName:       "invalid collection name",
		StatusUnknownCollection:       "unknown collection",
		StatusValueNotTerm:            "value does not resolve to a term",
		StatusNotCorrectEnumType:      "term does not belong to the required enumeration type",
		StatusDuplicateSetElement:     "duplicate element in set",

		StatusStoreError: "dictionary store error",
		StatusCancelled:  "validation cancelled",
	},
	"it": {
		StatusInvalidDataKindOption:  "opzione di tipo dati non valida",
		StatusNotArrayDataKind:       "il tipo dati non è una lista",
		StatusRangeNotAnObject:       "l'intervallo non è un oggetto",
		StatusExpectingDataDimension: "dimensione dati mancante",

		StatusOK: "inattivo",

		StatusNotAnObject: "il valore non è un oggetto",
		StatusNotAnArray:  "il valore non è una lista",
		StatusEmptyObject: "l'oggetto è vuoto",
		StatusUnknownTerm: "termine sconosciuto",

		StatusNotADescriptor: "il termine non è un descrittore",
		StatusNotAScalar:     "il valore non è uno scalare",

		StatusMissingScalarType: "il descrittore non indica il tipo di dato scalare",
		StatusNotABoolean:       "il valore non è un booleano",
		StatusNotAnInteger:      "il valore non è un intero",
		StatusNotANumber:        "il valore non è un numero",

		StatusValueOutOfRange:    "valore fuori intervallo",
		StatusValueLowRange:      "valore inferiore al minimo dell'intervallo",
		StatusValueHighRange:     "valore superiore al massimo dell'intervallo",
		StatusValueNotATimestamp: "il valore non è una data",
		StatusUnsupported:        "tipo di dato non supportato",
		StatusNotAString:         "il valore non è una stringa",
		StatusNoMatchRegexp:      "il valore non corrisponde all'espressione regolare",

		StatusEmptyKey:                "la chiave è vuota",
		StatusNotAnEnum:               "il termine non è un elemento di enumerazione",
		StatusNotAStructureDefinition: "il termine non è una definizione di struttura",
		StatusNoRefDefaultNamespace:   "impossibile riferire lo spazio dei nomi predefinito",
		StatusUnknownDocument:         "documento sconosciuto",
		StatusBadKeyValue:             "valore chiave non valido",
		StatusBadHandleValue:          "riferimento documento non valido",
		StatusBadCollectionName:       "nome collezione non valido",
		StatusUnknownCollection:       "collezione sconosciuta",
		StatusValueNotTerm:            "il valore non corrisponde a un termine",
		StatusNotCorrectEnumType:      "il termine non appartiene al tipo di enumerazione richiesto",
		StatusDuplicateSetElement:     "elemento duplicato nell'insieme",

		StatusStoreError: "errore del dizionario dati",
		StatusCancelled:  "validazione annullata",
	},
}

// StatusMessage returns the literal message for code in the requested
// language, falling back to the default language when no translation
// exists.
func StatusMessage(code StatusCode, language string) string {
	if table, ok := statusMessages[language]; ok {
		if msg, ok := table[code]; ok {
			return msg
		}
	}
	if msg, ok := statusMessages[DefaultLanguage][code]; ok {
		return msg
	}
	return "unknown status"
}

// RegisterStatusMessages installs or extends the message table for a
// language. Existing entries for the language are overwritten.
func RegisterStatusMessages(language string, messages map[StatusCode]string) {
	table, ok := statusMessages[language]
	if !ok {
		table = make(map[StatusCode]string, len(messages))
		statusMessages[language] = table
	}
	for code, msg := range messages {
		table[code] = msg
	}
}
