package sqlinline

// Provider keys for the generation backends. An empty token counts as unset.
const QSelectIntegrationToken = `--sql 2c5d9b8e-41a7-4f0b-9e63-d18f7a52c0b4
select token
from integration_tokens
where provider = $1::text
  and token <> ''
limit 1;
`

// Properties are merged so a later `apikey set` keeps earlier annotations.
const QUpsertIntegrationToken = `--sql 9f37a1c6-0d4e-4b85-a2f9-6e1c83b5d7a0
insert into integration_tokens (provider, token, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`
