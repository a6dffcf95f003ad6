package metricdata

// schemaURL is the resource name the schema compiles under.
const schemaURL = "https://github.com/unbound-force/facet/revision.schema.json"

// Schema is the JSON Schema (Draft 2020-12) for the revision metric
// data facet consumes. It documents the structure expected by Load.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/facet/revision.schema.json",
  "title": "Facet Revision Metric Data",
  "description": "Per-file detailed metric data for one archived revision",
  "type": "object",
  "required": ["operator_data"],
  "properties": {
    "operator_data": {
      "type": "object",
      "required": ["cyclomatic", "halstead", "raw"],
      "properties": {
        "cyclomatic": { "$ref": "#/$defs/FileMap" },
        "halstead": { "$ref": "#/$defs/FileMap" },
        "raw": { "$ref": "#/$defs/FileMap" }
      }
    }
  },
  "$defs": {
    "FileMap": {
      "type": "object",
      "description": "Source file path -> detailed entries",
      "additionalProperties": { "$ref": "#/$defs/FileDetails" }
    },
    "FileDetails": {
      "type": "object",
      "required": ["detailed"],
      "properties": {
        "detailed": {
          "type": "object",
          "description": "Entity name -> metric detail",
          "additionalProperties": { "$ref": "#/$defs/Detail" }
        }
      }
    },
    "Detail": {
      "type": "object",
      "properties": {
        "lineno": {
          "type": ["integer", "null"],
          "minimum": 1,
          "description": "One-based first line of the entity"
        },
        "endline": {
          "type": "integer",
          "minimum": 1,
          "description": "One-based last line of the entity"
        },
        "complexity": { "type": "integer" },
        "is_method": { "type": "boolean" },
        "is_class": { "type": "boolean" },
        "h1": { "type": "integer" },
        "h2": { "type": "integer" },
        "N1": { "type": "integer" },
        "N2": { "type": "integer" },
        "vocabulary": { "type": "integer" },
        "length": { "type": "integer" },
        "volume": { "type": "number" },
        "effort": { "type": "number" },
        "difficulty": { "type": "number" },
        "loc": { "type": "integer" },
        "lloc": { "type": "integer" },
        "sloc": { "type": "integer" },
        "comments": { "type": "integer" },
        "multi": { "type": "integer" },
        "blank": { "type": "integer" },
        "single_comments": { "type": "integer" }
      }
    }
  }
}`
