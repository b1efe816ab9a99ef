package storefront

// CollectionPageSize is how many products one collection page holds.
const CollectionPageSize = 4

// FeaturedCollectionCount is how many collections the home page lists.
const FeaturedCollectionCount = 3

const imageFields = `id url altText width height`

const moneyFields = `amount currencyCode`

const shopQuery = `
query layout($country: CountryCode, $language: LanguageCode)
@inContext(country: $country, language: $language) {
  shop {
    name
    description
  }
}`

const collectionsQuery = `
query FeatureCollections($first: Int!, $country: CountryCode, $language: LanguageCode)
@inContext(country: $country, language: $language) {
  collections(first: $first, query: "collection_type:smart") {
    nodes {
      id
      title
      handle
      image { ` + imageFields + ` }
    }
  }
}`

const collectionQuery = `
query CollectionDetails($handle: String!, $cursor: String, $first: Int!, $country: CountryCode, $language: LanguageCode)
@inContext(country: $country, language: $language) {
  collection(handle: $handle) {
    id
    title
    description
    handle
    products(first: $first, after: $cursor) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        id
        title
        publishedAt
        handle
        variants(first: 1) {
          nodes {
            id
            image { ` + imageFields + ` }
            price { ` + moneyFields + ` }
            compareAtPrice { ` + moneyFields + ` }
          }
        }
      }
    }
  }
}`

const productQuery = `
query product($handle: String!, $selectedOptions: [SelectedOptionInput!]!, $country: CountryCode, $language: LanguageCode)
@inContext(country: $country, language: $language) {
  product(handle: $handle) {
    id
    title
    handle
    vendor
    descriptionHtml
    media(first: 10) {
      nodes {
        ... on MediaImage {
          id
          mediaContentType
          alt
          image { ` + imageFields + ` }
        }
        ... on Model3d {
          id
          mediaContentType
          alt
          sources { mimeType url }
        }
        ... on Video {
          id
          mediaContentType
          alt
          sources { mimeType url }
        }
      }
    }
    options {
      name
      values
    }
    selectedVariant: variantBySelectedOptions(selectedOptions: $selectedOptions) {
      ...VariantFields
    }
    variants(first: 1) {
      nodes {
        ...VariantFields
      }
    }
  }
}

fragment VariantFields on ProductVariant {
  id
  title
  sku
  availableForSale
  selectedOptions { name value }
  image { ` + imageFields + ` }
  price { ` + moneyFields + ` }
  compareAtPrice { ` + moneyFields + ` }
  unitPrice { ` + moneyFields + ` }
  product { title handle }
}`

const cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
            title
            availableForSale
            selectedOptions { name value }
            image { ` + imageFields + ` }
            price { ` + moneyFields + ` }
            product { title handle }
          }
        }
        cost {
          totalAmount { ` + moneyFields + ` }
        }
      }
    }
  }
  cost {
    subtotalAmount { ` + moneyFields + ` }
    totalAmount { ` + moneyFields + ` }
    totalTaxAmount { ` + moneyFields + ` }
  }
}`

const userErrorFragment = `
fragment ErrorFields on CartUserError {
  message
  field
  code
}`

const cartQuery = `
query cart($cartId: ID!, $country: CountryCode, $language: LanguageCode)
@inContext(country: $country, language: $language) {
  cart(id: $cartId) {
    ...CartFields
  }
}` + cartFragment

const cartCreateMutation = `
mutation cartCreate($input: CartInput!, $country: CountryCode = ZZ, $language: LanguageCode)
@inContext(country: $country, language: $language) {
  cartCreate(input: $input) {
    cart { ...CartFields }
    errors: userErrors { ...ErrorFields }
  }
}` + cartFragment + userErrorFragment

const cartLinesAddMutation = `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!, $country: CountryCode = ZZ, $language: LanguageCode)
@inContext(country: $country, language: $language) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    errors: userErrors { ...ErrorFields }
  }
}` + cartFragment + userErrorFragment

const cartLinesRemoveMutation = `
mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!, $country: CountryCode, $language: LanguageCode)
@inContext(country: $country, language: $language) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart { ...CartFields }
    errors: userErrors { ...ErrorFields }
  }
}` + cartFragment + userErrorFragment
